// Package config provides configuration loading and validation for comixd.
//
// The package handles YAML configuration files, environment variables, and CLI
// flags with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (COMIX_ prefix)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
//	// Retrieve later
//	cfg, err = config.FromContext(ctx)
//
// # Environment Variables
//
// All config keys map to environment variables with COMIX_ prefix:
//   - server.port → COMIX_SERVER_PORT
//   - library.root → COMIX_LIBRARY_ROOT
//   - auth.password → COMIX_AUTH_PASSWORD
//
// # Configuration Structure
//
// The Config struct contains:
//   - Server: bind host and port, streaming chunk size, debug mode
//   - Library: collection root path, hidden names and patterns, image and
//     archive extensions, banner text
//   - Encoding: candidate encodings for legacy archive entry names
//   - Auth: optional password for HTTP Basic authentication
//   - Log: logging level
//
// # Validation
//
// Configuration is validated using struct tags:
//   - Port must be 1-65535
//   - Library root is required
//   - Chunk size must be positive
//   - Log level must be debug, info, warn, or error
package config
