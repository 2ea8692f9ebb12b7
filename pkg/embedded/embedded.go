package embedded

import (
	_ "embed"
)

// Embed the web player assets
//
//go:embed assets/index.html
var IndexHTML []byte

//go:embed assets/style.css
var StyleCSS []byte

//go:embed assets/script.js
var ScriptJS []byte
