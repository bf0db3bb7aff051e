package config

import "time"

// Config is the root configuration of the coderoad CLI.
type Config struct {
	// Build holds the input and output locations of a tutorial build.
	Build BuildConfig `yaml:"build"`

	// Git configures access to the tutorial code repository.
	Git GitConfig `yaml:"git"`

	// Validate configures the validation runner.
	Validate ValidateConfig `yaml:"validate"`

	// Watch configures "build --watch".
	Watch WatchConfig `yaml:"watch"`

	// Telemetry configures logging, metrics and tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// BuildConfig describes the files a build reads and writes.
type BuildConfig struct {
	// Dir is the tutorial directory; relative file names resolve against it.
	// Default: "."
	Dir string `yaml:"dir"`

	// Markdown is the lesson text file.
	// Default: "TUTORIAL.md"
	Markdown string `yaml:"markdown"`

	// Skeleton is the YAML skeleton file.
	// Default: "coderoad.yaml"
	Skeleton string `yaml:"skeleton"`

	// Output is the compiled tutorial document.
	// Default: "tutorial.json"
	Output string `yaml:"output"`

	// Strict makes schema failures block writing the output.
	// Default: false
	Strict bool `yaml:"strict"`

	// Branch overrides config.repo.branch from the skeleton.
	Branch string `yaml:"branch"`

	// Repo is a remote repository to clone instead of reading Dir.
	Repo string `yaml:"repo"`
}

// GitConfig configures git access.
type GitConfig struct {
	// Auth configures authentication for remote repositories.
	Auth GitAuthConfig `yaml:"auth"`

	// Clone configures remote clones.
	Clone GitCloneConfig `yaml:"clone"`
}

// GitAuthConfig configures Git authentication.
type GitAuthConfig struct {
	// Type: "token", "ssh", "none"
	// Default: "none"
	Type string `yaml:"type"`

	// Token for HTTPS authentication.
	// Required when Type is "token".
	Token string `yaml:"token"`

	// SSHKeyPath for SSH authentication.
	// Required when Type is "ssh".
	SSHKeyPath string `yaml:"ssh_key_path"`

	// SSHKeyPassphrase for encrypted SSH keys.
	SSHKeyPassphrase string `yaml:"ssh_key_passphrase"`
}

// GitCloneConfig configures repository cloning.
type GitCloneConfig struct {
	// Depth limits history for remote clones; 0 clones full history.
	// Position extraction needs the whole branch, so 0 is the usual value.
	// Default: 0
	Depth int `yaml:"depth"`

	// Timeout bounds a single clone.
	// Default: 5m
	Timeout time.Duration `yaml:"timeout"`
}

// ValidateConfig configures "coderoad validate".
type ValidateConfig struct {
	// KeepTemp preserves the scratch clone after the run.
	// Default: false
	KeepTemp bool `yaml:"keep_temp"`

	// TempDir is the parent of scratch clones; empty uses the OS default.
	TempDir string `yaml:"temp_dir"`

	// CommandTimeout bounds every cherry-pick, command and test run.
	// Default: 2m
	CommandTimeout time.Duration `yaml:"command_timeout"`
}

// WatchConfig configures "build --watch".
type WatchConfig struct {
	// Debounce coalesces bursts of file events into one rebuild.
	// Default: 300ms
	Debounce time.Duration `yaml:"debounce"`
}

// TelemetryConfig groups the observability settings.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format: "json", "text"
	// Default: "text"
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus textfile export.
type MetricsConfig struct {
	// Enabled turns metrics collection on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Textfile is written after every build when set.
	Textfile string `yaml:"textfile"`

	// Namespace prefixes every metric name.
	// Default: "coderoad"
	Namespace string `yaml:"namespace"`
}

// TracingConfig configures OpenTelemetry spans.
type TracingConfig struct {
	// Enabled turns span export on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Output is the file spans are written to; empty means stderr.
	Output string `yaml:"output"`

	// ServiceName is the service.name resource attribute.
	// Default: "coderoad"
	ServiceName string `yaml:"service_name"`
}
