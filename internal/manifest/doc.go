// Package manifest loads node definitions from HCL files.
//
// A manifest declares the shape of one or more node types:
//
//	node "math.add" {
//	  display_name = "Add"
//
//	  input "a" {
//	    name = "A"
//	    type = float
//	  }
//	  input "b" {
//	    type = float
//	  }
//	  output "sum" {
//	    type = float
//	  }
//	}
//
// Pin types are the keywords bool, int, float, string, vec2, vec3, json and
// any; a quoted keyword is accepted too, and an omitted type means any.
// display_name defaults to the type id and a pin name to its id.
//
// Manifests only declare shapes. Executors are always compiled Go code
// registered by modules, so a manifest-only type validates but fails to run
// until a module provides its executor.
package manifest
