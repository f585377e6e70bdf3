package app

import (
	"github.com/vk/nodeflow/internal/registry"
	"github.com/vk/nodeflow/modules/conststring"
	"github.com/vk/nodeflow/modules/print"
	"github.com/vk/nodeflow/modules/town"
)

// coreModules is the definitive list of all modules that are compiled into
// the binary.
var coreModules = []registry.Module{
	&print.Module{},
	&conststring.Module{},
	&town.Module{},
}

// CoreModules returns the built-in modules, in registration order.
func CoreModules() []registry.Module {
	return append([]registry.Module(nil), coreModules...)
}
