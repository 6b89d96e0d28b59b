// Package langapi maps language mode identifiers and file extensions to
// the front ends that load programs.
//
// A Registry is constructed explicitly and passed to whoever needs it;
// there is no package-level table. NewRegistry returns an empty registry,
// Default returns one holding the built-in goto-yaml and goto-json modes.
//
//	reg := langapi.Default()
//	lang, err := reg.FromFilename("Main.yaml")
//	if err != nil {
//	    return err
//	}
//	p, st, err := lang.Parse(f, "Main.yaml")
package langapi
