// Package hcl_adapter loads recipe definitions from HCL files into the
// recipe registry.
//
// A recipe file contains one or more blocks of the form:
//
//	recipe ".c" {
//	  label = "C"
//	  build {
//	    command = ["gcc", "-O2", file, "-o", "${bench_dir}/${stem}_c${exe}"]
//	  }
//	  run {
//	    command = ["${bench_dir}/${stem}_c${exe}"]
//	  }
//	}
//
// Commands and directories are kept as unevaluated expressions; they are
// evaluated per source file by recipe.Definition.Expand.
package hcl_adapter
