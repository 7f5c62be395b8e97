package config

import (
	"context"
	"fmt"
	"os"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/cirkolabs/izdaj/internal/platform"
	"github.com/cirkolabs/izdaj/internal/target"
)

// Parser parses Lua release manifests with host platform injection.
type Parser struct {
	detector platform.Detector
}

// NewParser creates a manifest parser. The detector may be nil, in which
// case no platform table is injected.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector}
}

// ParseError represents a manifest parsing error with a friendly message.
type ParseError struct {
	Message string // user-facing message
	Detail  string // technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// ParseFile parses a manifest from a file on disk.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Manifest, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	return p.ParseString(ctx, string(code))
}

// ParseString parses a manifest from a string. Useful for tests and for the
// compiled-in fallback manifest.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Manifest, error) {
	L := newSandboxedVM()
	defer L.Close()

	if p.detector != nil {
		info, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("host detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, info); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		return nil, &ParseError{
			Message: "Lua syntax error",
			Detail:  err.Error(),
		}
	}

	return extractManifest(L)
}

// extractManifest pulls the global "release" table out of the Lua state and
// converts it into a validated Manifest.
func extractManifest(L *lua.LState) (*Manifest, error) {
	releaseVal := L.GetGlobal(luaGlobalRelease)
	if releaseVal.Type() != lua.LTTable {
		return nil, &ParseError{
			Message: "missing or invalid 'release' table",
			Detail:  fmt.Sprintf("expected table, got %s", releaseVal.Type()),
		}
	}
	table := releaseVal.(*lua.LTable)

	// Start from the compiled-in defaults; the manifest overrides what it
	// names. Program and targets are replaced, not merged.
	manifest := Default()

	if s, ok := fieldString(table, luaFieldProgram); ok {
		manifest.Program = s
	}

	if targetsVal := table.RawGetString(luaFieldTargets); targetsVal.Type() == lua.LTTable {
		manifest.Targets = extractTargets(targetsVal.(*lua.LTable))
	}

	if s, ok := fieldString(table, luaFieldOutput); ok {
		manifest.Output = s
	}
	if s, ok := fieldString(table, luaFieldProfile); ok {
		manifest.Profile = s
	}

	if mode, err := extractVersionMode(table); err != nil {
		return nil, err
	} else if mode != "" {
		manifest.VersionMode = mode
	}

	if b, ok := fieldBool(table, luaFieldSign); ok {
		manifest.Sign = b
	}
	if s, ok := fieldString(table, luaFieldKey); ok {
		manifest.Key = s
	}
	if s, ok := fieldString(table, luaFieldSignWith); ok {
		manifest.SignWith = s
	}
	if b, ok := fieldBool(table, luaFieldKeepGoing); ok {
		manifest.KeepGoing = b
	}
	if n, ok := fieldInt(table, luaFieldJobs); ok {
		manifest.Jobs = n
	}
	if n, ok := fieldInt(table, luaFieldTimeout); ok {
		manifest.Timeout = time.Duration(n) * time.Second
	}

	if err := manifest.Validate(); err != nil {
		return nil, &ParseError{
			Message: "manifest validation failed",
			Detail:  err.Error(),
		}
	}

	return manifest, nil
}

// extractTargets collects the targets array, dropping nil entries produced
// by platform conditionals and ignoring non-string values (validation
// reports an empty or malformed catalog afterwards).
func extractTargets(table *lua.LTable) target.Catalog {
	var targets target.Catalog
	table.ForEach(func(key, value lua.LValue) {
		if value.Type() != lua.LTString {
			return
		}
		targets = append(targets, target.Target(value.String()))
	})
	return targets
}

// extractVersionMode reads the version field, which may be a plain string
// ("required") or a table ({ mode = "required" }). Returns "" when absent.
func extractVersionMode(table *lua.LTable) (VersionMode, error) {
	versionVal := table.RawGetString(luaFieldVersion)
	switch versionVal.Type() {
	case lua.LTNil:
		return "", nil
	case lua.LTString:
		return VersionMode(versionVal.String()), nil
	case lua.LTTable:
		if s, ok := fieldString(versionVal.(*lua.LTable), luaFieldMode); ok {
			return VersionMode(s), nil
		}
		return "", nil
	default:
		return "", &ParseError{
			Message: "invalid 'version' field",
			Detail:  fmt.Sprintf("expected string or table, got %s", versionVal.Type()),
		}
	}
}

func fieldString(table *lua.LTable, field string) (string, bool) {
	val := table.RawGetString(field)
	if val.Type() != lua.LTString {
		return "", false
	}
	return val.String(), true
}

func fieldBool(table *lua.LTable, field string) (bool, bool) {
	val := table.RawGetString(field)
	if val.Type() != lua.LTBool {
		return false, false
	}
	return val == lua.LTrue, true
}

func fieldInt(table *lua.LTable, field string) (int, bool) {
	val := table.RawGetString(field)
	if val.Type() != lua.LTNumber {
		return 0, false
	}
	return int(lua.LVAsNumber(val)), true
}
