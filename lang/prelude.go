package lang

import (
	"context"
	"sync"

	"github.com/ardnew/scene/lang/syntax"
)

// preludeSource declares the element kinds every scene can create.
const preludeSource = `
template Element {}

template Scene inherit Element {
	define width = 640
	define height = 480
	define background = "black"
	define duration = 1s
	define frame_rate = 24
	define time = 0s
}

template Rectangle inherit Element {
	define x = 0
	define y = 0
	define width = 100%
	define height = 100%
	define color = "white"
	define outline_color = "none"
	define outline_width = 1
}

template Rect inherit Rectangle {}

template Circle inherit Element {
	define cx = 50%
	define cy = 50%
	define radius = 10
	define color = "white"
	define outline_color = "none"
	define outline_width = 1
}

template Ellipse inherit Element {
	define cx = 50%
	define cy = 50%
	define rx = 25%
	define ry = 25%
	define color = "white"
	define outline_color = "none"
	define outline_width = 1
}

template Line inherit Element {
	define x1 = 0
	define y1 = 0
	define x2 = 100%
	define y2 = 100%
	define color = "white"
	define stroke_width = 1
}

template Text inherit Element {
	define x = 50%
	define y = 50%
	define text = ""
	define font_size = 16
	define color = "white"
	define anchor = "middle"
}

template Group inherit Element {
	define x = 0
	define y = 0
}
`

var prelude = sync.OnceValues(func() ([]*syntax.Template, error) {
	return syntax.ParseLibrary(context.Background(), preludeSource,
		syntax.WithName("<prelude>"))
})

// Prelude returns the source of the builtin templates.
func Prelude() string { return preludeSource }
