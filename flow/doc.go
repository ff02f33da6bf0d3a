// Package flow drives the verification flow of one VHDL module: it loads the
// module's config.yml, flattens its submodule hierarchy into a compile order,
// runs the external compiler, elaborator and simulator through a Toolchain,
// and verifies every simulation case with the pattern plugins registered in
// package pattern.
//
// All paths are explicit. Nothing here changes the process working
// directory; tools are started in the directory they are given.
package flow
