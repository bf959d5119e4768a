package viewmodels

import (
	"github.com/adampresley/adamgokit/rendering"
)

type BaseViewModel struct {
	Message            string
	IsError            bool
	IsHtmx             bool
	JavascriptIncludes []rendering.JavascriptInclude
}
