// Package config parses and validates the Lua release manifest.
//
// The manifest is declarative Lua executed in a sandboxed VM: the os, io and
// code-loading facilities are removed, so a manifest can compute values but
// cannot touch the system. Host platform information is injected as a
// read-only "platform" table before the manifest runs, which allows
// platform-conditional target lists.
//
// # Schema
//
// A manifest defines a single global "release" table:
//
//	release = {
//	    program = "ћирко",
//	    targets = {
//	        "x86_64-unknown-linux-gnu",
//	        "x86_64-pc-windows-gnu",
//	        platform.when(platform.is_macos, "aarch64-apple-darwin"),
//	    },
//	    output  = "build",
//	    profile = "release",
//	    version = { mode = "required" }, -- "required" | "optional" | "none"
//	    sign    = true,
//	    key     = "release-key.asc",
//	    sign_with  = "",    -- "" = built-in signer, "gpg" = external gpg
//	    keep_going = false, -- continue past a failing target
//	    jobs    = 1,        -- parallel targets
//	    timeout = 0,        -- seconds per external invocation, 0 = none
//	}
//
// Nil entries in the targets list (from platform conditionals) are dropped.
// Every field except program and targets has a default; see Default.
package config
