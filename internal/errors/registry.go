package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://weft.dev/docs/errors/"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (E001-E019)
	// ============================================

	"E001": {
		Category: CategoryRuntime,
		Message:  "Owner disposed",
		Detail:   "The owner has been disposed. This usually means a task or event handler outlived the component that started it.",
		DocURL:   docBase + "E001",
	},
	"E002": {
		Category: CategoryRuntime,
		Message:  "Effect flush did not settle",
		Detail:   "Effects kept re-triggering each other past the flush limit. Check for an effect that writes a cell it depends on.",
		DocURL:   docBase + "E002",
	},
	"E003": {
		Category: CategoryRuntime,
		Message:  "Effect failed",
		Detail:   "An effect returned an error or panicked and no error handler on its owner chain took it.",
		DocURL:   docBase + "E003",
	},
	"E004": {
		Category: CategoryRuntime,
		Message:  "Task cancelled",
		Detail:   "The task's owner was disposed before the task resolved.",
		DocURL:   docBase + "E004",
	},

	// ============================================
	// Render Errors (E020-E039)
	// ============================================

	"E020": {
		Category: CategoryRender,
		Message:  "Component failed",
		Detail:   "A component returned an error while rendering or loading. Its fallback or an empty placeholder was rendered instead.",
		DocURL:   docBase + "E020",
	},
	"E021": {
		Category: CategoryRender,
		Message:  "Component panicked",
		Detail:   "A component panicked while rendering. An empty placeholder was rendered in its place.",
		DocURL:   docBase + "E021",
	},
	"E022": {
		Category: CategoryRender,
		Message:  "Instance does not belong to this target",
		Detail:   "An already-rendered instance was passed to a renderer for a different target.",
		DocURL:   docBase + "E022",
	},
	"E023": {
		Category: CategoryRender,
		Message:  "Target has no default root",
		Detail:   "RenderRoot needs an adapter that provides a default root instance.",
		DocURL:   docBase + "E023",
	},
	"E024": {
		Category: CategoryRender,
		Message:  "Render deadline exceeded",
		Detail:   "Async components did not resolve before the render deadline. Their fallbacks were rendered.",
		DocURL:   docBase + "E024",
	},

	// ============================================
	// Hydration Errors (E040-E059)
	// ============================================

	"E040": {
		Category: CategoryHydration,
		Message:  "Hydration mismatch",
		Detail:   "The live tree did not match the prerendered one. The mismatched nodes were replaced.",
		DocURL:   docBase + "E040",
	},

	// ============================================
	// Live Errors (E060-E079)
	// ============================================

	"E060": {
		Category: CategoryLive,
		Message:  "WebSocket upgrade failed",
		Detail:   "The request could not be upgraded to a WebSocket connection.",
		DocURL:   docBase + "E060",
	},
	"E061": {
		Category: CategoryLive,
		Message:  "Client too slow",
		Detail:   "The session's send queue filled up and the session was closed.",
		DocURL:   docBase + "E061",
	},
	"E062": {
		Category: CategoryLive,
		Message:  "Session limit reached",
		Detail:   "The server already holds the maximum number of live sessions.",
		DocURL:   docBase + "E062",
	},

	// ============================================
	// Config Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The configuration file could not be read or parsed.",
		DocURL:   docBase + "E120",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Unsupported configuration format",
		Detail:   "Configuration files must end in .json, .yaml or .yml.",
		DocURL:   docBase + "E121",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid port",
		Detail:   "Port must be between 0 and 65535.",
		DocURL:   docBase + "E122",
	},
	"E123": {
		Category: CategoryConfig,
		Message:  "Invalid duration",
		Detail:   "Durations use Go syntax, such as \"50ms\" or \"30s\".",
		DocURL:   docBase + "E123",
	},
	"E124": {
		Category: CategoryConfig,
		Message:  "Export bucket not set",
		Detail:   "weft export uploads to S3 and needs a bucket name.",
		DocURL:   docBase + "E124",
	},
	"E141": {
		Category: CategoryConfig,
		Message:  "Configuration not found",
		Detail:   "No weft.json, weft.yaml or weft.yml was found.",
		DocURL:   docBase + "E141",
	},

	// ============================================
	// CLI Errors (E160-E179)
	// ============================================

	"E160": {
		Category: CategoryCLI,
		Message:  "Unknown app",
		Detail:   "The requested app is not registered.",
		DocURL:   docBase + "E160",
	},
	"E161": {
		Category: CategoryCLI,
		Message:  "Output write failed",
		Detail:   "The rendered output could not be written.",
		DocURL:   docBase + "E161",
	},
	"E162": {
		Category: CategoryCLI,
		Message:  "Server failed",
		Detail:   "The HTTP server stopped with an error.",
		DocURL:   docBase + "E162",
	},

	// ============================================
	// Export Errors (E180-E199)
	// ============================================

	"E180": {
		Category: CategoryExport,
		Message:  "Upload failed",
		Detail:   "The rendered page could not be uploaded to S3.",
		DocURL:   docBase + "E180",
	},
	"E181": {
		Category: CategoryExport,
		Message:  "AWS credentials missing",
		Detail:   "Set AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY, or run with --dry-run.",
		DocURL:   docBase + "E181",
	},
}

// Register adds or replaces an error template.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Codes returns all registered codes in order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
