// Package utils contains small type conversion helpers shared across features.
package utils
