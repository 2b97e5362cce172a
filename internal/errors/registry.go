package errors

import "github.com/vango-dev/routekit/pkg/router"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// kindCodes maps route compile error kinds to registered codes.
var kindCodes = map[router.ErrorKind]string{
	router.UnbalancedBrackets:        "E200",
	router.UnseparatedParams:         "E201",
	router.InvalidParamName:          "E202",
	router.InvalidEscapeSequence:     "E203",
	router.ReservedCharacter:         "E204",
	router.InvalidRestPlacement:      "E205",
	router.ReservedFile:              "E210",
	router.ReservedName:              "E211",
	router.DuplicateRole:             "E212",
	router.UnresolvedLayoutReference: "E213",
	router.InvalidMatcher:            "E214",
	router.Filesystem:                "E215",
	router.NoRoutes:                  "E216",
	router.ConflictingRoutes:         "E218",
	router.UnknownMatcher:            "E219",
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (E120-E149)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid routekit.json",
		Detail:   "The configuration file could not be parsed. Check for JSON syntax errors.",
		DocURL:   "https://routekit.dev/docs/errors/E120",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Invalid file extension",
		Detail:   "Extensions in routes.pageExtensions and routes.moduleExtensions must start with a dot.",
		DocURL:   "https://routekit.dev/docs/errors/E121",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid port number",
		Detail:   "dev.port must be between 1 and 65535.",
		DocURL:   "https://routekit.dev/docs/errors/E122",
	},
	"E123": {
		Category: CategoryConfig,
		Message:  "Missing publish bucket",
		Detail:   "Publishing the manifest requires publish.bucket to be set.",
		DocURL:   "https://routekit.dev/docs/errors/E123",
	},
	"E124": {
		Category: CategoryConfig,
		Message:  "Invalid environment override",
		Detail:   "A ROUTEKIT_* environment variable holds a value of the wrong type.",
		DocURL:   "https://routekit.dev/docs/errors/E124",
	},
	"E140": {
		Category: CategoryConfig,
		Message:  "Config already exists",
		Detail:   "routekit init will not overwrite an existing routekit.json.",
		DocURL:   "https://routekit.dev/docs/errors/E140",
	},
	"E141": {
		Category: CategoryConfig,
		Message:  "Not a routekit project",
		Detail:   "No routekit.json was found. Run this command from a project root or pass --config.",
		DocURL:   "https://routekit.dev/docs/errors/E141",
	},

	// ============================================
	// Build Errors (E150-E169)
	// ============================================

	"E150": {
		Category: CategoryBuild,
		Message:  "Failed to write manifest",
		Detail:   "The compiled route table could not be written to the output path.",
		DocURL:   "https://routekit.dev/docs/errors/E150",
	},
	"E151": {
		Category: CategoryBuild,
		Message:  "Failed to publish manifest",
		Detail:   "Uploading the manifest to object storage failed. Check credentials and the bucket name.",
		DocURL:   "https://routekit.dev/docs/errors/E151",
	},

	// ============================================
	// Dev Server Errors (E170-E189)
	// ============================================

	"E170": {
		Category: CategoryDev,
		Message:  "Dev server failed",
		Detail:   "The development server stopped unexpectedly.",
		DocURL:   "https://routekit.dev/docs/errors/E170",
	},
	"E171": {
		Category: CategoryDev,
		Message:  "File watcher failed",
		Detail:   "The routes directory could not be watched for changes.",
		DocURL:   "https://routekit.dev/docs/errors/E171",
	},

	// ============================================
	// CLI Errors (E190-E199)
	// ============================================

	"E190": {
		Category: CategoryCLI,
		Message:  "No route matches",
		Detail:   "None of the compiled routes matches the given path.",
		DocURL:   "https://routekit.dev/docs/errors/E190",
	},

	// ============================================
	// Route Grammar Errors (E200-E209)
	// ============================================

	"E200": {
		Category: CategoryRoutes,
		Message:  "Unbalanced brackets",
		Detail:   "Every [ in a directory name needs a matching ].",
		DocURL:   "https://routekit.dev/docs/errors/E200",
	},
	"E201": {
		Category: CategoryRoutes,
		Message:  "Unseparated parameters",
		Detail:   "Two parameters in one directory name must be separated by static text, e.g. [a]-[b].",
		DocURL:   "https://routekit.dev/docs/errors/E201",
	},
	"E202": {
		Category: CategoryRoutes,
		Message:  "Invalid parameter name",
		Detail:   "Parameter names may contain letters, digits, _ and $ only.",
		DocURL:   "https://routekit.dev/docs/errors/E202",
	},
	"E203": {
		Category: CategoryRoutes,
		Message:  "Invalid escape sequence",
		Detail:   "Escapes are written [x+HH] or [u+HHHH] with lowercase hex digits.",
		DocURL:   "https://routekit.dev/docs/errors/E203",
	},
	"E204": {
		Category: CategoryRoutes,
		Message:  "Reserved character",
		Detail:   "Some characters cannot appear literally in a route directory name. Use an escape sequence instead.",
		DocURL:   "https://routekit.dev/docs/errors/E204",
	},
	"E205": {
		Category: CategoryRoutes,
		Message:  "Invalid rest parameter placement",
		Detail:   "A rest parameter must fill its whole directory name, appear at most once per route, and not be followed by an optional parameter.",
		DocURL:   "https://routekit.dev/docs/errors/E205",
	},

	// ============================================
	// Route Structure Errors (E210-E217)
	// ============================================

	"E210": {
		Category: CategoryRoutes,
		Message:  "Reserved file name",
		Detail:   "Files starting with + are reserved for route files such as +page, +layout, +error and +server.",
		DocURL:   "https://routekit.dev/docs/errors/E210",
	},
	"E211": {
		Category: CategoryRoutes,
		Message:  "Reserved name",
		Detail:   "Names starting with __ are reserved.",
		DocURL:   "https://routekit.dev/docs/errors/E211",
	},
	"E212": {
		Category: CategoryRoutes,
		Message:  "Duplicate route file",
		Detail:   "A directory holds two files for the same role, usually with different extensions.",
		DocURL:   "https://routekit.dev/docs/errors/E212",
	},
	"E213": {
		Category: CategoryRoutes,
		Message:  "Unresolved layout reference",
		Detail:   "A +page@name or +layout@name file names an ancestor directory that does not exist.",
		DocURL:   "https://routekit.dev/docs/errors/E213",
	},
	"E214": {
		Category: CategoryRoutes,
		Message:  "Invalid matcher",
		Detail:   "Matcher file names must be word characters only and unique across extensions.",
		DocURL:   "https://routekit.dev/docs/errors/E214",
	},
	"E215": {
		Category: CategoryRoutes,
		Message:  "Filesystem error",
		Detail:   "The routes directory could not be read.",
		DocURL:   "https://routekit.dev/docs/errors/E215",
	},
	"E216": {
		Category: CategoryRoutes,
		Message:  "No routes",
		Detail:   "The routes directory contains no +page or +server files.",
		DocURL:   "https://routekit.dev/docs/errors/E216",
	},

	// ============================================
	// Route Table Errors (E218-E219)
	// ============================================

	"E218": {
		Category: CategoryRoutes,
		Message:  "Conflicting routes",
		Detail:   "Two routes would match exactly the same set of URLs.",
		DocURL:   "https://routekit.dev/docs/errors/E218",
	},
	"E219": {
		Category: CategoryRoutes,
		Message:  "Unknown matcher",
		Detail:   "A parameter references a matcher that is not defined in the matchers directory.",
		DocURL:   "https://routekit.dev/docs/errors/E219",
	},
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// AllCodes returns all registered error codes.
func AllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}
