// Package config provides configuration management for the coderoad CLI.
//
// Configuration is read from an optional YAML file (".coderoad.yaml" by
// default), completed with defaults, then overridden from the environment.
// A ".env" file next to the working directory is loaded first, so values in
// it behave like regular environment variables.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention CODEROAD_SECTION_FIELD:
//
//   - CODEROAD_BUILD_OUTPUT overrides build.output
//   - CODEROAD_GIT_AUTH_TOKEN overrides git.auth.token
//   - CODEROAD_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from the YAML file
//  3. ".env" values and environment variables
//  4. Command-line flags (applied by the CLI)
//
// Validation runs after step 3 and reports every invalid field at once.
//
// # Singleton
//
//	if err := config.Initialize(".coderoad.yaml"); err != nil {
//		return err
//	}
//	cfg := config.GetConfig()
package config
