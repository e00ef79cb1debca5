package embedded

import (
	_ "embed"
)

// Embedded grammar and example data
//
//go:embed data/grammars/clip_dsl.lark
var ClipDSLGrammar string

//go:embed data/songs/demo.yaml
var DemoSongYAML []byte
