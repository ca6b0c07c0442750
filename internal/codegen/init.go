package codegen

import (
	"github.com/conanfanli/py2ts/internal/codegen/golang"
	"github.com/conanfanli/py2ts/internal/codegen/graphene"
	"github.com/conanfanli/py2ts/internal/codegen/graphql"
	"github.com/conanfanli/py2ts/internal/codegen/protobuf"
	"github.com/conanfanli/py2ts/internal/codegen/typescript"
	"github.com/conanfanli/py2ts/internal/render"
)

// DefaultRegistry is the global registry instance with pre-registered profiles
var DefaultRegistry = NewRegistry()

func init() {
	// Register TypeScript interfaces
	DefaultRegistry.Register("typescript", factory(typescript.New))

	// Register ts as an alias for typescript
	DefaultRegistry.Register("ts", factory(typescript.New))

	DefaultRegistry.Register("graphene", factory(graphene.New))
	DefaultRegistry.Register("graphql", factory(graphql.New))
	DefaultRegistry.Register("protobuf", factory(protobuf.New))
	DefaultRegistry.Register("go", factory(golang.New))
}

// factory adapts a concrete constructor to a Factory without leaking a
// typed nil renderer on error
func factory[R render.Renderer](build func(render.Options) (R, error)) Factory {
	return func(opts render.Options) (render.Renderer, error) {
		r, err := build(opts)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
}
