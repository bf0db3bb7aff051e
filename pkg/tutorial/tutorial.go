package tutorial

// Tutorial is the compiled document consumed by the learning-tool runtime.
type Tutorial struct {
	ID      string         `json:"id"`
	Version string         `json:"version"`
	Summary Summary        `json:"summary"`
	Config  TutorialConfig `json:"config"`
	Levels  []Level        `json:"levels"`
}

// Summary is the tutorial title and description taken from the lesson text.
type Summary struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Level is one top-level lesson unit.
type Level struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Summary string       `json:"summary"`
	Content string       `json:"content"`
	Setup   *StepActions `json:"setup,omitempty"`
	Steps   []Step       `json:"steps"`
}

// Step is a task within a level. Setup is always present; Solution only
// when solution commits exist or the skeleton declares one.
type Step struct {
	ID       string       `json:"id"`
	Content  string       `json:"content"`
	Setup    StepActions  `json:"setup"`
	Solution *StepActions `json:"solution,omitempty"`
	Hints    []string     `json:"hints,omitempty"`
	Subtasks []string     `json:"subtasks,omitempty"`
}

// StepActions is an action bundle together with the commits resolved for it
// from the repository history. Commits is never nil in a built document.
type StepActions struct {
	Commits []string `json:"commits"`
	Actions
}

// Actions is the non-content metadata a skeleton attaches to a level or step.
type Actions struct {
	Files          []string `yaml:"files,omitempty" json:"files,omitempty"`
	Commands       []string `yaml:"commands,omitempty" json:"commands,omitempty"`
	VSCodeCommands []any    `yaml:"vscodeCommands,omitempty" json:"vscodeCommands,omitempty"`
	Watchers       []string `yaml:"watchers,omitempty" json:"watchers,omitempty"`
	Filter         string   `yaml:"filter,omitempty" json:"filter,omitempty"`
	Subtasks       bool     `yaml:"subtasks,omitempty" json:"subtasks,omitempty"`
}

// TutorialConfig is copied from the skeleton into the tutorial. The only
// field a build adds is Setup.Commits, filled from INIT commits.
type TutorialConfig struct {
	TestRunner   TestRunnerConfig `yaml:"testRunner" json:"testRunner"`
	Repo         RepoConfig       `yaml:"repo" json:"repo"`
	Setup        *ConfigActions   `yaml:"setup,omitempty" json:"setup,omitempty"`
	Reset        *ConfigActions   `yaml:"reset,omitempty" json:"reset,omitempty"`
	Continue     *ConfigActions   `yaml:"continue,omitempty" json:"continue,omitempty"`
	Dependencies []Dependency     `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
	AppVersions  *AppVersions     `yaml:"appVersions,omitempty" json:"appVersions,omitempty"`
	Webhook      *Webhook         `yaml:"webhook,omitempty" json:"webhook,omitempty"`
}

// TestRunnerConfig describes how the runtime (and the validate command)
// executes the tutorial's tests.
type TestRunnerConfig struct {
	Command   string         `yaml:"command" json:"command"`
	Args      TestRunnerArgs `yaml:"args" json:"args"`
	Directory string         `yaml:"directory,omitempty" json:"directory,omitempty"`
}

// TestRunnerArgs holds the flags appended to the test command.
type TestRunnerArgs struct {
	Filter string `yaml:"filter,omitempty" json:"filter,omitempty"`
	Tap    string `yaml:"tap" json:"tap"`
}

// RepoConfig holds the coordinates of the tutorial code repository.
type RepoConfig struct {
	URI    string `yaml:"uri" json:"uri"`
	Branch string `yaml:"branch" json:"branch"`
}

// ConfigActions is a tutorial-wide command bundle (setup, reset, continue).
type ConfigActions struct {
	Commits        []string `yaml:"commits,omitempty" json:"commits,omitempty"`
	Commands       []string `yaml:"commands,omitempty" json:"commands,omitempty"`
	VSCodeCommands []any    `yaml:"vscodeCommands,omitempty" json:"vscodeCommands,omitempty"`
}

// Dependency is an external tool the learner must have installed.
type Dependency struct {
	Name    string `yaml:"name" json:"name"`
	Version string `yaml:"version" json:"version"`
	Message string `yaml:"message,omitempty" json:"message,omitempty"`
}

// AppVersions constrains the runtime versions the tutorial supports.
type AppVersions struct {
	VSCode string `yaml:"vscode,omitempty" json:"vscode,omitempty"`
}

// Webhook is notified by the runtime on learner progress events.
type Webhook struct {
	URL    string        `yaml:"url" json:"url"`
	Events WebhookEvents `yaml:"events" json:"events"`
}

// WebhookEvents selects the events sent to the webhook.
type WebhookEvents struct {
	Init             bool `yaml:"init,omitempty" json:"init,omitempty"`
	Reset            bool `yaml:"reset,omitempty" json:"reset,omitempty"`
	StepComplete     bool `yaml:"step_complete,omitempty" json:"step_complete,omitempty"`
	LevelComplete    bool `yaml:"level_complete,omitempty" json:"level_complete,omitempty"`
	TutorialComplete bool `yaml:"tutorial_complete,omitempty" json:"tutorial_complete,omitempty"`
}

// StepCount returns the number of steps across all levels.
func (t *Tutorial) StepCount() int {
	n := 0
	for _, l := range t.Levels {
		n += len(l.Steps)
	}
	return n
}
