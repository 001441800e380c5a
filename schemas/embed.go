// Package schemas embeds the JSON Schemas for zktools output documents.
package schemas

import "embed"

// LinkCollection is the schema file name for `zktools links --format json`.
const LinkCollection = "link_collection.schema.json"

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
