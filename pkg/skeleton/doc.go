/*
Package skeleton loads and checks the course skeleton, the YAML document
that carries a tutorial's ids, configuration and per-level/per-step action
metadata.

	loader := skeleton.NewLoader()
	doc, err := loader.Load("coderoad.yaml")
	if err != nil {
		return err // unparseable YAML is a fatal structural error
	}
	diags := skeleton.Check(doc, gate)

Level and step ids are normalized on load, so legacy ids such as "L1" or
"L1S2" match lesson text written with "## 1." headers.
*/
package skeleton
