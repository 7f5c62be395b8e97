package config

// Lua schema globals and field names
const (
	luaGlobalRelease  = "release"
	luaFieldProgram   = "program"
	luaFieldTargets   = "targets"
	luaFieldOutput    = "output"
	luaFieldProfile   = "profile"
	luaFieldVersion   = "version"
	luaFieldMode      = "mode"
	luaFieldSign      = "sign"
	luaFieldKey       = "key"
	luaFieldSignWith  = "sign_with"
	luaFieldKeepGoing = "keep_going"
	luaFieldJobs      = "jobs"
	luaFieldTimeout   = "timeout"
)

// Validation limits
const (
	// MaxTargetCount bounds the catalog size; a release spanning more
	// platforms than this is almost certainly a manifest mistake.
	MaxTargetCount = 64

	// MaxJobs bounds parallel target builds.
	MaxJobs = 32
)
