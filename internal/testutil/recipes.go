package testutil

// ShellRecipe runs ".sh" files directly with sh, with no build step.
const ShellRecipe = `
recipe ".sh" {
  label = "Shell"
  run { command = ["sh", file] }
}
`

// CompiledShellRecipe treats ".csh" files as a compiled language: the build
// step copies the script to an executable next to it and the run step
// executes that copy.
const CompiledShellRecipe = `
recipe ".csh" {
  label = "CompiledShell"
  build {
    name    = "compile"
    command = ["sh", "-c", "cp \"$1\" \"$2\" && chmod +x \"$2\"", "compile", file, "${bench_dir}/${stem}_csh"]
  }
  run { command = ["${bench_dir}/${stem}_csh"] }
}
`
