// Package datasource loads grid rows from files and generates synthetic
// data sets.
//
// Load picks a reader from the file extension:
//
//	.csv .tsv           delimited text with a header row
//	.json               an array of objects, or the array at a gjson path
//	.jsonl .ndjson      one object per line
//	.yaml .yml          a sequence of mappings
//	.parquet            a parquet file
//
// Delimited values are typed on load: numbers become float64 and
// true/false become bool unless inference is turned off.
package datasource
