package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goldenCSV = `Id,firstName,lastName,salary,managerId
1,Manager,Boss,1000000,
2,Subordinate,One,500,1
3,Subordinate,Two,214000,1
4,Deep,Subordinate,80000,2
5,Jane,Doe,177700,3
6,Ella,Fitzgerald,148000,5
7,Mason,Alexander,120000,6
8,Mason,Alexander,100000,7
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun_TextReport(t *testing.T) {
	path := writeFile(t, "employees.csv", goldenCSV)
	t.Setenv("CONFIG_PATH", "")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{path}, &stdout, &stderr)

	require.Equal(t, exitOK, code, stderr.String())
	assert.Equal(t, strings.Join([]string{
		"Employee ID: 1, Name: Manager Boss, Issue: Earns more than expected, Discrepancy: 839125.00",
		"Employee ID: 2, Name: Subordinate One, Issue: Earns less than expected, Discrepancy: 95500.00",
		"Employee ID: 8, Name: Mason Alexander, Issue: Too many managers in reporting line by 1 levels",
		"",
	}, "\n"), stdout.String())
}

func TestRun_JSONReportWithWorkers(t *testing.T) {
	path := writeFile(t, "employees.csv", goldenCSV)
	t.Setenv("CONFIG_PATH", "")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--format", "json", "--workers", "4", path}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	var doc struct {
		RunID    string `json:"run_id"`
		Findings []struct {
			EmployeeID int64  `json:"employee_id"`
			Kind       string `json:"kind"`
		} `json:"findings"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &doc))
	assert.NotEmpty(t, doc.RunID)
	require.Len(t, doc.Findings, 3)
	assert.Equal(t, "EXCESSIVE_CHAIN", doc.Findings[2].Kind)
}

func TestRun_EmptyReportPrintsNothing(t *testing.T) {
	path := writeFile(t, "employees.csv", "Id,firstName,lastName,salary,managerId\n1,Solo,Founder,1,\n")
	t.Setenv("CONFIG_PATH", "")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{path}, &stdout, &stderr)

	assert.Equal(t, exitOK, code)
	assert.Empty(t, stdout.String())
}

func TestRun_MissingFileArgument(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), nil, &stdout, &stderr)

	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr.String(), usageLine)
}

func TestRun_UnknownFlagIsUsageError(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	var stdout, stderr bytes.Buffer
	assert.Equal(t, exitUsage, run(context.Background(), []string{"--nope"}, &stdout, &stderr))
}

func TestRun_UnknownFormatIsUsageError(t *testing.T) {
	path := writeFile(t, "employees.csv", goldenCSV)
	t.Setenv("CONFIG_PATH", "")

	var stdout, stderr bytes.Buffer
	assert.Equal(t, exitUsage, run(context.Background(), []string{"--format", "xml", path}, &stdout, &stderr))
}

func TestRun_ProcessingErrors(t *testing.T) {
	cases := map[string]string{
		"cycle":     "Id,firstName,lastName,salary,managerId\n1,A,A,1,2\n2,B,B,1,1\n",
		"dangling":  "Id,firstName,lastName,salary,managerId\n1,A,A,1,99\n",
		"duplicate": "Id,firstName,lastName,salary,managerId\n1,A,A,1,\n1,B,B,1,\n",
		"malformed": "Id,firstName,lastName,salary,managerId\nx,A,A,1,\n",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, "employees.csv", content)
			t.Setenv("CONFIG_PATH", "")

			var stdout, stderr bytes.Buffer
			code := run(context.Background(), []string{path}, &stdout, &stderr)

			assert.Equal(t, exitProcessing, code)
			assert.True(t, strings.HasPrefix(stderr.String(), "Error processing data: "), stderr.String())
			assert.Empty(t, stdout.String())
		})
	}
}

func TestRun_MissingInputFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{filepath.Join(t.TempDir(), "absent.csv")}, &stdout, &stderr)

	assert.Equal(t, exitProcessing, code)
	assert.Contains(t, stderr.String(), "Error processing data: ")
}

func TestRun_ConfigFile(t *testing.T) {
	csvPath := writeFile(t, "employees.csv", goldenCSV)
	cfgPath := writeFile(t, "config.yaml", "source:\n  kind: csv\n  path: "+csvPath+"\nreport:\n  max_reporting_depth: 10\n")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--config", cfgPath}, &stdout, &stderr)

	require.Equal(t, exitOK, code, stderr.String())
	assert.NotContains(t, stdout.String(), "Too many managers")
	assert.Equal(t, 2, strings.Count(stdout.String(), "\n"))
}

func TestRun_PostgresSourceWithoutDatabaseIsUsageError(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	for _, source := range []string{"postgres", "POSTGRES"} {
		t.Run(source, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), []string{"--source", source}, &stdout, &stderr)

			assert.Equal(t, exitUsage, code)
			assert.Contains(t, stderr.String(), "database.host")
			assert.NotContains(t, stderr.String(), "Error processing data")
		})
	}
}

func TestRun_SourceOverrideIsCaseInsensitive(t *testing.T) {
	path := writeFile(t, "employees.csv", goldenCSV)
	t.Setenv("CONFIG_PATH", "")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--source", " CSV ", path}, &stdout, &stderr)

	require.Equal(t, exitOK, code, stderr.String())
	assert.Equal(t, 3, strings.Count(stdout.String(), "\n"))
}

func TestRun_UnknownSourceIsUsageError(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	var stdout, stderr bytes.Buffer
	assert.Equal(t, exitUsage, run(context.Background(), []string{"--source", "ldap"}, &stdout, &stderr))
}

func TestRun_SubCentDiscrepancyIsNotRounded(t *testing.T) {
	path := writeFile(t, "employees.csv", "Id,firstName,lastName,salary,managerId\n"+
		"1,M,X,12.01,\n"+
		"2,S,One,10.00,1\n"+
		"3,S,Two,10.01,1\n")
	t.Setenv("CONFIG_PATH", "")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{path}, &stdout, &stderr)

	require.Equal(t, exitOK, code, stderr.String())
	assert.Equal(t, "Employee ID: 1, Name: M X, Issue: Earns less than expected, Discrepancy: 0.002\n", stdout.String())
}
