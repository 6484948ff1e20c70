package constants

// Application constants - single source of truth for naming throughout the codebase
const (
	// Core application identity
	AppName        = "railguard"
	BinaryName     = "railguard"
	ProjectTagline = "Guardrails and automation for coding-agent hooks"

	// Module and repository
	ModulePath    = "github.com/klauern/railguard"
	RepositoryURL = "https://github.com/klauern/railguard"

	// Configuration files
	SettingsFileName = "settings.json"
	DefaultsFileName = "defaults.json"
	ProjectDir       = ".railguard"
	ProjectRulesBase = "rules"

	// Global settings key holding the rule groups
	RulesKey       = "rules"
	LogRotationKey = "logRotation"

	// Log files
	DefaultLogFile = "railguard.log"
	LogsSubDir     = "logs"

	// Host directories
	ClaudeDir = ".claude"
	CursorDir = ".cursor"

	// Command patterns for host settings
	CommandPattern = BinaryName + " run"
)

// Tool names as seen by the engine. Host adapters lower-case tool names
// before dispatch so these match Claude Code's Bash/Edit/Write/Read too.
const (
	ToolBash      = "bash"
	ToolEdit      = "edit"
	ToolMultiEdit = "multiedit"
	ToolWrite     = "write"
	ToolRead      = "read"
)

// Automation defaults
const (
	DefaultTimeoutMs = 30000
	ExitCodeBlocking = 2
)

// ProjectRulesExtensions lists the project rule file extensions in lookup order.
var ProjectRulesExtensions = []string{".json", ".yaml", ".yml", ".toml"}
