package log

// Attribute keys for structured log records.
const (
	Answer    = "answer"
	Branch    = "branch"
	Default   = "default"
	Dir       = "dir"
	Duration  = "duration"
	Entries   = "entries"
	Error     = "error"
	Files     = "files"
	Kinds     = "kinds"
	Latest    = "latest"
	Module    = "module"
	Path      = "path"
	Pkg       = "pkg"
	Question  = "question"
	Runner    = "runner"
	Suggested = "suggested"
	Tag       = "tag"
	Tsconfig  = "tsconfig"
	Version   = "version"
)
