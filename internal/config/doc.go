// Package config provides configuration parsing for routekit projects.
//
// The configuration is stored in routekit.json at the project root. An
// optional .env file next to it is loaded first, and ROUTEKIT_* environment
// variables override values from the file.
//
// # Configuration File Structure
//
//	{
//	  "routes": {
//	    "dir": "src/routes",
//	    "matchers": "src/params",
//	    "pageExtensions": [".templ", ".html"],
//	    "moduleExtensions": [".go"],
//	    "strictEndpointSlash": false,
//	    "specialNames": ["__tests__", "__snapshots__"]
//	  },
//	  "output": {
//	    "manifest": "build/manifest.json"
//	  },
//	  "dev": {
//	    "host": "localhost",
//	    "port": 3000,
//	    "debounce": "100ms",
//	    "ignore": ["*.swp"]
//	  },
//	  "publish": {
//	    "bucket": "my-app-manifests",
//	    "prefix": "staging/",
//	    "region": "eu-west-1"
//	  }
//	}
//
// # Environment Overrides
//
//	ROUTEKIT_ROUTES_DIR, ROUTEKIT_MATCHERS_DIR, ROUTEKIT_PAGE_EXTENSIONS,
//	ROUTEKIT_MODULE_EXTENSIONS, ROUTEKIT_STRICT_ENDPOINT_SLASH,
//	ROUTEKIT_MANIFEST, ROUTEKIT_DEV_HOST, ROUTEKIT_DEV_PORT,
//	ROUTEKIT_DEV_DEBOUNCE, ROUTEKIT_PUBLISH_BUCKET, ROUTEKIT_PUBLISH_PREFIX,
//	ROUTEKIT_PUBLISH_REGION, ROUTEKIT_PUBLISH_ENDPOINT
//
// List values are comma separated.
package config
