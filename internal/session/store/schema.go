// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Attenda Contributors

package store

import (
	"encoding/json"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/invopop/jsonschema"
	"github.com/samber/oops"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// SchemaID is the $id stamped into the generated session document schema.
const SchemaID = "https://attenda.dev/schemas/session.schema.json"

var (
	schemaOnce sync.Once
	schemaCmpl *jschema.Schema
	schemaErr  error
)

// GenerateSchema reflects the full-state envelope into a JSON Schema. The
// cmd/gen-schema tool writes it to disk for external tooling; the read
// path compiles it in-process.
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := r.Reflect(&SessionDocument{})
	schema.ID = jsonschema.ID(SchemaID)
	schema.Title = "Attenda Session Document"
	schema.Description = "Full-state tier envelope for a persisted session"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, oops.Wrap(err)
	}
	return data, nil
}

// validateDocument checks raw full-state JSON against the generated
// schema. A validation failure means the stored document is corrupt or was
// written by an incompatible release.
func validateDocument(raw []byte) error {
	sch, err := compiledSchema()
	if err != nil {
		return err
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return oops.Errorf("stored document is not valid JSON")
	}
	if err := sch.Validate(doc); err != nil {
		return oops.With("reason", "schema_mismatch").Wrap(err)
	}
	return nil
}

func compiledSchema() (*jschema.Schema, error) {
	schemaOnce.Do(func() {
		raw, err := GenerateSchema()
		if err != nil {
			schemaErr = err
			return
		}
		var schemaData any
		if err := json.Unmarshal(raw, &schemaData); err != nil {
			schemaErr = oops.Wrap(err)
			return
		}
		c := jschema.NewCompiler()
		if err := c.AddResource("session.schema.json", schemaData); err != nil {
			schemaErr = oops.Wrap(err)
			return
		}
		schemaCmpl, schemaErr = c.Compile("session.schema.json")
	})
	return schemaCmpl, schemaErr
}

// versionCompatible reports whether a stored document version can be read
// by this release: same major as DocumentVersion.
func versionCompatible(stored string) bool {
	current := semver.MustParse(DocumentVersion)
	v, err := semver.NewVersion(stored)
	if err != nil {
		return false
	}
	return v.Major() == current.Major()
}
