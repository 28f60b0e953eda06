package shaders

import (
	_ "embed"
)

//go:embed section.wgsl
var SectionWGSL string

//go:embed text.wgsl
var TextWGSL string
