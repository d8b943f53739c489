package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/petrarca/techstack-lens/internal/catalog"
	"github.com/petrarca/techstack-lens/internal/metadata"
	"github.com/petrarca/techstack-lens/internal/presenter"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envNames = []string{"DATASET", "FORMAT", "ADDR", "LOG_LEVEL", "LOG_FORMAT", "LOG_FILE", "VERBOSE", "SEARCH_INDEX"}

// executeCommand runs the root command with args and returns its stdout and stderr
func executeCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	for _, name := range envNames {
		t.Setenv("TECHSTACK_LENS_"+name, "")
	}
	t.Cleanup(func() { resetFlags(rootCmd) })

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// resetFlags restores every flag of the command tree to its default
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func TestInfoCategories(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		out, _, err := executeCommand(t, "", "info", "categories")
		require.NoError(t, err)
		assert.Contains(t, out, "=== Technology Categories (6) ===")
		assert.Contains(t, out, "Databases")
		assert.Less(t, strings.Index(out, "Common Application Stacks"), strings.Index(out, "OtherTechnologies"))
	})

	t.Run("json", func(t *testing.T) {
		out, _, err := executeCommand(t, "", "info", "categories", "--format", "json")
		require.NoError(t, err)

		var result CategoriesResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, 6, result.Count)
		require.Len(t, result.Categories, 6)
		assert.Equal(t, "Common Application Stacks", result.Categories[0].Name)
		assert.Equal(t, []string{"PHP", "Ruby", "Node.js"}, result.Categories[0].Preview)
	})

	t.Run("invalid format", func(t *testing.T) {
		_, _, err := executeCommand(t, "", "info", "categories", "-f", "xml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid format")
	})
}

func TestInfoTechs(t *testing.T) {
	t.Run("all technologies", func(t *testing.T) {
		out, _, err := executeCommand(t, "", "info", "techs")
		require.NoError(t, err)
		assert.Contains(t, out, "Redis (Databases)")
		assert.Contains(t, out, "Total: 27 technologies")
	})

	t.Run("category filter", func(t *testing.T) {
		out, _, err := executeCommand(t, "", "info", "techs", "--category", "Data*", "-f", "json")
		require.NoError(t, err)

		var result TechsResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		names := make([]string, 0, len(result.Technologies))
		for _, tech := range result.Technologies {
			assert.Equal(t, "Databases", tech.Category)
			names = append(names, tech.Name)
		}
		assert.Equal(t, []string{"MySQL", "Redis", "PostgreSQL", "MongoDB"}, names)
		assert.Equal(t, "/category/Databases/tech/Redis", result.Technologies[1].Location)
	})

	t.Run("several patterns", func(t *testing.T) {
		out, _, err := executeCommand(t, "", "info", "techs", "--category", "WebServers", "--category", "Other*")
		require.NoError(t, err)
		assert.Contains(t, out, "Total: 7 technologies")
	})

	t.Run("invalid pattern", func(t *testing.T) {
		_, _, err := executeCommand(t, "", "info", "techs", "--category", "[")
		require.Error(t, err)
	})
}

func TestInfoTech(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		out, _, err := executeCommand(t, "", "info", "tech", "Databases", "Redis")
		require.NoError(t, err)
		assert.Contains(t, out, "Home › Databases › Redis")
		assert.Contains(t, out, "Known Risk:")
		assert.Contains(t, out, "Config Files (")
		assert.Contains(t, out, "redis_stack.json")
	})

	t.Run("json keeps key order", func(t *testing.T) {
		out, _, err := executeCommand(t, "", "info", "tech", "Databases", "Redis", "-f", "json")
		require.NoError(t, err)

		var result struct {
			Tech           string          `json:"tech"`
			ExportFileName string          `json:"export_file_name"`
			Details        json.RawMessage `json:"details"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, "Redis", result.Tech)
		assert.Equal(t, "redis_stack.json", result.ExportFileName)

		details, err := catalog.ParseExport(result.Details)
		require.NoError(t, err)
		assert.Equal(t, []string{"KnownRisk", "ConfigFiles", "ExposedEndpoints", "CommonVulnerabilities"}, details.Keys())
	})

	t.Run("yaml", func(t *testing.T) {
		out, _, err := executeCommand(t, "", "info", "tech", "Databases", "Redis", "-f", "yaml")
		require.NoError(t, err)
		assert.Contains(t, out, "tech: Redis")
		assert.Less(t, strings.Index(out, "KnownRisk"), strings.Index(out, "ConfigFiles"))
	})

	t.Run("unknown technology", func(t *testing.T) {
		_, _, err := executeCommand(t, "", "info", "tech", "Databases", "Oracle")
		require.Error(t, err)
		assert.ErrorIs(t, err, catalog.ErrTechnologyNotFound)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, _, err := executeCommand(t, "", "info", "tech", "Mainframes", "Redis")
		require.Error(t, err)
		assert.ErrorIs(t, err, catalog.ErrCategoryNotFound)
	})

	t.Run("missing arguments", func(t *testing.T) {
		_, _, err := executeCommand(t, "", "info", "tech", "Databases")
		require.Error(t, err)
	})
}

func TestInfoDataset(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		out, _, err := executeCommand(t, "", "info", "dataset", "-f", "json")
		require.NoError(t, err)

		var m metadata.DatasetMetadata
		require.NoError(t, json.Unmarshal([]byte(out), &m))
		assert.Equal(t, catalog.EmbeddedSource, m.Source)
		assert.Equal(t, 27, m.Technologies)
		assert.False(t, m.SearchIndex)
	})

	t.Run("indexed", func(t *testing.T) {
		out, _, err := executeCommand(t, "", "--indexed", "info", "dataset", "-f", "json")
		require.NoError(t, err)

		var m metadata.DatasetMetadata
		require.NoError(t, json.Unmarshal([]byte(out), &m))
		assert.True(t, m.SearchIndex)
		assert.Equal(t, 613, m.IndexEntries)
	})

	t.Run("format from environment", func(t *testing.T) {
		for _, name := range envNames {
			t.Setenv("TECHSTACK_LENS_"+name, "")
		}
		t.Cleanup(func() { resetFlags(rootCmd) })
		t.Setenv("TECHSTACK_LENS_FORMAT", "json")

		var stdout bytes.Buffer
		rootCmd.SetOut(&stdout)
		rootCmd.SetErr(&bytes.Buffer{})
		rootCmd.SetArgs([]string{"info", "dataset"})
		require.NoError(t, rootCmd.Execute())
		assert.True(t, json.Valid(stdout.Bytes()), stdout.String())
	})

	t.Run("verbose progress", func(t *testing.T) {
		_, stderr, err := executeCommand(t, "", "-v", "info", "dataset")
		require.NoError(t, err)
		assert.Contains(t, stderr, "[LOAD] Reading dataset: "+catalog.EmbeddedSource)
		assert.Contains(t, stderr, "[CAT]  Databases (4 technologies)")
	})
}

func TestSearch(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		out, _, err := executeCommand(t, "", "search", "actuator")
		require.NoError(t, err)
		assert.Contains(t, out, "SpringBoot  [Frameworks_CMS]")
		assert.Contains(t, out, "Exposed Endpoints:")
	})

	t.Run("scanner and index agree", func(t *testing.T) {
		scanned, _, err := executeCommand(t, "", "search", "log", "-f", "json")
		require.NoError(t, err)
		resetFlags(rootCmd)
		indexed, _, err := executeCommand(t, "", "search", "log", "-f", "json", "--indexed")
		require.NoError(t, err)
		assert.JSONEq(t, scanned, indexed)

		var result SearchResult
		require.NoError(t, json.Unmarshal([]byte(indexed), &result))
		assert.Equal(t, 20, result.Count)
	})

	t.Run("category filter", func(t *testing.T) {
		out, _, err := executeCommand(t, "", "search", "root", "--category", "Databases", "-f", "json")
		require.NoError(t, err)

		var result SearchResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		require.Equal(t, 5, result.Count)
		assert.Equal(t, "root:(blank)", result.Results[1].MatchValue)
		assert.Equal(t, "Default Credentials", result.Results[1].MatchField)
		assert.Equal(t, "root:root", result.Results[2].MatchValue)
	})

	t.Run("multi word query", func(t *testing.T) {
		out, _, err := executeCommand(t, "", "search", "Apache", "Tomcat", "-f", "json")
		require.NoError(t, err)

		var result SearchResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, "Apache Tomcat", result.Query)
	})

	t.Run("short query", func(t *testing.T) {
		out, _, err := executeCommand(t, "", "search", "r")
		require.NoError(t, err)
		assert.Equal(t, presenter.NoResults("r")+"\n", out)
	})

	t.Run("empty query shows hint", func(t *testing.T) {
		out, _, err := executeCommand(t, "", "search", "")
		require.NoError(t, err)
		assert.Equal(t, presenter.SearchHint+"\n", out)
	})

	t.Run("output file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "results.json")
		out, stderr, err := executeCommand(t, "", "search", "redis", "-f", "json", "-o", path)
		require.NoError(t, err)
		assert.Empty(t, out)
		assert.Contains(t, stderr, "Results written to "+path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var result SearchResult
		require.NoError(t, json.Unmarshal(data, &result))
		assert.Equal(t, 2, result.Count)
	})
}

func TestExport(t *testing.T) {
	ds, err := catalog.LoadEmbedded()
	require.NoError(t, err)
	redis, err := ds.Technology("Databases", "Redis")
	require.NoError(t, err)

	t.Run("stdout", func(t *testing.T) {
		out, _, err := executeCommand(t, "", "export", "Databases", "Redis", "-o", "-")
		require.NoError(t, err)

		details, err := catalog.ParseExport([]byte(out))
		require.NoError(t, err)
		assert.Equal(t, redis.Details.Attributes(), details.Attributes())
	})

	t.Run("explicit file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.json")
		_, stderr, err := executeCommand(t, "", "export", "Databases", "Redis", "-o", path)
		require.NoError(t, err)
		assert.Contains(t, stderr, "Export written to "+path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		expected, err := catalog.ExportBytes(redis.Details)
		require.NoError(t, err)
		assert.Equal(t, expected, data)
	})

	t.Run("default file name", func(t *testing.T) {
		dir := t.TempDir()
		wd, err := os.Getwd()
		require.NoError(t, err)
		require.NoError(t, os.Chdir(dir))
		t.Cleanup(func() { _ = os.Chdir(wd) })

		_, _, err = executeCommand(t, "", "export", "Common Application Stacks", "Node.js")
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dir, "node.js_stack.json"))
	})

	t.Run("unknown technology", func(t *testing.T) {
		_, _, err := executeCommand(t, "", "export", "Databases", "Oracle", "-o", "-")
		assert.ErrorIs(t, err, catalog.ErrTechnologyNotFound)
	})
}

func TestBrowse(t *testing.T) {
	t.Run("search and pick", func(t *testing.T) {
		out, _, err := executeCommand(t, "search actuator\npick 1\nquit\n", "browse")
		require.NoError(t, err)
		assert.Contains(t, out, "Categories")
		assert.Contains(t, out, "Home › Frameworks_CMS › SpringBoot")
	})

	t.Run("start location and export", func(t *testing.T) {
		dir := t.TempDir()
		out, _, err := executeCommand(t, "export\n", "browse", "--start", "/category/Databases/tech/Redis", "--export-dir", dir)
		require.NoError(t, err)
		assert.Contains(t, out, "exported "+filepath.Join(dir, "redis_stack.json"))
		assert.FileExists(t, filepath.Join(dir, "redis_stack.json"))
	})

	t.Run("start location is reported", func(t *testing.T) {
		_, stderr, err := executeCommand(t, "quit\n", "-v", "browse", "--start", "/category/Databases")
		require.NoError(t, err)
		assert.Contains(t, stderr, "[INFO] Opening /category/Databases")
	})

	t.Run("unknown start location", func(t *testing.T) {
		_, _, err := executeCommand(t, "", "browse", "--start", "/category/Mainframes")
		assert.ErrorIs(t, err, catalog.ErrCategoryNotFound)
	})
}

func TestServe_BadAddress(t *testing.T) {
	_, _, err := executeCommand(t, "", "serve", "--addr", "127.0.0.1:99999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}

func TestSettingsFlags(t *testing.T) {
	t.Run("invalid log level", func(t *testing.T) {
		_, _, err := executeCommand(t, "", "--log-level", "loud", "info", "dataset")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("invalid log format", func(t *testing.T) {
		_, _, err := executeCommand(t, "", "--log-format", "xml", "info", "dataset")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log format")
	})

	t.Run("external dataset", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yaml")
		content := "version: \"0.1\"\ncategories:\n  - name: \"Queues\"\n    technologies:\n      - name: \"Kafka\"\n        details:\n          ExposedEndpoints: [\"Port 9092\"]\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		out, _, err := executeCommand(t, "", "--dataset", path, "search", "9092", "-f", "json")
		require.NoError(t, err)

		var result SearchResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		require.Equal(t, 1, result.Count)
		assert.Equal(t, "Kafka", result.Results[0].TechName)
	})

	t.Run("missing dataset file", func(t *testing.T) {
		_, _, err := executeCommand(t, "", "--dataset", filepath.Join(t.TempDir(), "nope.yaml"), "info", "categories")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read dataset file")
	})
}
