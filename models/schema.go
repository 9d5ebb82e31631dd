// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "github.com/invopop/jsonschema"

// GenerateSchema reflects T into an inline JSON Schema
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

// BallotSchema describes the ballot submission body
var BallotSchema = GenerateSchema[SubmitBallotRequest]()
