// Package assets provides CSS styles and hover script templates for table
// decoration.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (default, minimal, ruler)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the loader used by the decorator. It tries the custom
// FilesystemLoader first and falls back to EmbeddedLoader only when the
// asset is not found, so a custom directory may override a single file.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css    # row state styles (odd, even, ruled)
//	└── scripts/
//	    └── {name}.js     # text/template rendered with pipeline.ScriptData
//
// # Security
//
// Asset names are restricted to letters, digits, '-' and '_'.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
