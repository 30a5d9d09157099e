// Package schema describes validator trees declaratively.
//
// A Schema is a tree of typed nodes. Documents are written in YAML or JSON
// and decoded with Parse, Load or LoadFile; FromMap decodes a map that was
// already unmarshalled from a larger config file.
//
//	type: model_fields
//	class_name: User
//	fields:
//	  - name: id
//	    schema: {type: int, gt: 0}
//	  - name: email
//	    schema: {type: str, strip_whitespace: true, to_lower: true}
//	  - name: friends
//	    schema:
//	      type: default
//	      default: []
//	      schema: {type: list, items_schema: {type: definition_ref, schema_ref: user}}
//	definitions:
//	  user: {type: model_fields, fields: [{name: id, schema: {type: int}}]}
//
// Recursive schemas refer to entries of the root Definitions map through
// definition_ref nodes. Check reports structural problems such as unknown
// types or missing sub-schemas; references are resolved by the builder in
// package validator.
package schema
