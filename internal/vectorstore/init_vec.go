// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build sqlite_vec && cgo

package vectorstore

import (
	vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
)

func init() {
	// Register the sqlite-vec extension with the mattn/go-sqlite3 driver so
	// vec0 virtual tables are available to deployments that index passages
	// natively instead of through the JSON embedding column.
	vec.Auto()
}
