// Package parsers loads the semicolon-delimited CSV files that drive a
// mail merge run.
//
// Uploaded CSVs arrive in whatever encoding the user's spreadsheet happened
// to export, so parsing is a two-step affair: DetectEncoding probes a fixed
// list of candidate encodings against the header row, then LoadCSV decodes
// the whole file under the winner into an ordered Dataset of Records
// (map[column]value).
//
// Example:
//
//	ds, err := parsers.LoadCSV("recipients.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, record := range ds.Records {
//	    fmt.Println(record["Email"])
//	}
package parsers
