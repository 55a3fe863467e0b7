package constants_test

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/agentstation/taischeck/pkg/constants"
)

// Example demonstrates building a report file name
func Example() {
	ts := time.Date(2025, 11, 3, 9, 30, 0, 0, time.UTC)
	name := constants.CompareReportPrefix + ts.Format(constants.TimeFormatFilename) + ".xlsx"
	fmt.Println(filepath.Join(constants.DefaultOutputDir, name))
	// Output:
	// data_reports/compare_result_20251103_093000.xlsx
}

// Example_responseFile demonstrates the captured response naming
func Example_responseFile() {
	fmt.Printf(constants.ResponseFilePattern+"\n", 3)
	fmt.Printf("%o\n", constants.FilePermissions)
	// Output:
	// response-3.json
	// 644
}
