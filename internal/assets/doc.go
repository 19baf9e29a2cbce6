// Package assets provides the stylesheets and templates used to build HTML,
// SVG containers and dashboards.
//
// Loaders:
//
//	Loader (interface)
//	    ├── EmbeddedLoader    built-in assets compiled in with go:embed
//	    ├── FilesystemLoader  user assets from a directory on disk
//	    └── Resolver          custom first, embedded on not-found
//
// A custom directory mirrors the embedded layout:
//
//	{basePath}/
//	├── styles/{name}.css
//	└── templates/{name}.tmpl
//
// Asset names are plain identifiers; separators and dots are rejected, and
// the filesystem loader refuses paths that resolve outside basePath.
package assets
