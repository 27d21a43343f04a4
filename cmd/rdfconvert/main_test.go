package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoknoesis/rdf-convert/internal/config"
	"github.com/geoknoesis/rdf-convert/internal/fileio"
	"github.com/geoknoesis/rdf-convert/rdf"
)

const catalogXML = `<catalog><item id="a1">Widget</item></catalog>`

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(config.EnvBaseURI, "")
	t.Setenv(config.EnvLabel, "")
	t.Setenv(config.EnvLogLevel, "")

	cmd := rootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "rdfconvert dev\n", out)
}

func TestConvertStdinMatchesLibrary(t *testing.T) {
	out, _, err := run(t, catalogXML, "convert", "--base", "https://example.org#", "--label", "shop")
	require.NoError(t, err)

	want, err := rdf.ConvertXMLToTTL([]byte(catalogXML), "https://example.org#", rdf.Some("shop"))
	require.NoError(t, err)
	assert.Equal(t, want, out)
}

func TestConvertRequiresBase(t *testing.T) {
	_, _, err := run(t, catalogXML, "convert")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base URI is required")
}

func TestConvertRejectsInvalidFlags(t *testing.T) {
	_, _, err := run(t, "{}", "convert", "--base", "https://example.org", "--format", "yaml")
	assert.ErrorContains(t, err, "invalid format")

	_, _, err = run(t, "{}", "convert", "--base", "https://example.org", "--label", "a b")
	assert.ErrorIs(t, err, rdf.ErrInvalidNamespace)

	_, _, err = run(t, "{}", "convert", "--base", "https://example.org", "--stream")
	assert.ErrorContains(t, err, "--stream needs --output")
}

func TestConvertInvalidUTF8(t *testing.T) {
	_, _, err := run(t, "<a>\xff</a>", "convert", "--base", "https://example.org")
	assert.ErrorIs(t, err, rdf.ErrInvalidEncoding)
}

func TestConvertFilesToDirectory(t *testing.T) {
	dir := t.TempDir()
	xmlPath := writeInput(t, dir, "catalog.xml", catalogXML)
	jsonPath := filepath.Join(dir, "doc.json.gz")
	require.NoError(t, fileio.WriteOutput(jsonPath, []byte(`{"name":"test","value":42}`)))
	outDir := filepath.Join(dir, "out")

	_, _, err := run(t, "", "convert", "--base", "https://example.org/", "--jobs", "2", "-o", outDir, xmlPath, jsonPath)
	require.NoError(t, err)

	xmlOut, err := os.ReadFile(filepath.Join(outDir, "catalog.nt"))
	require.NoError(t, err)
	assert.Contains(t, string(xmlOut), "/xml2rdf/model#hasValue")

	jsonOut, err := os.ReadFile(filepath.Join(outDir, "doc.nt"))
	require.NoError(t, err)
	assert.Contains(t, string(jsonOut), `"42"`)
	assert.NotContains(t, string(jsonOut), rdf.DefaultNamespace)
}

func TestConvertMultipleToStdoutKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	first := writeInput(t, dir, "a.json", `{"first":1}`)
	second := writeInput(t, dir, "b.json", `{"second":2}`)

	out, _, err := run(t, "", "convert", "--base", "https://example.org/", "--jobs", "4", first, second)
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "#first"), strings.Index(out, "#second"))
}

func TestConvertCompressedOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.nt.zst")
	_, _, err := run(t, catalogXML, "convert", "--base", "https://example.org/", "-o", out)
	require.NoError(t, err)

	data, err := fileio.ReadInput(out, 0)
	require.NoError(t, err)
	assert.Equal(t, 6, strings.Count(string(data), "\n"))
}

func TestConvertStreamAppends(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.nt")
	args := []string{"convert", "--base", "https://example.org#", "--label", "shop", "--stream", "--validate", "-o", out}

	_, _, err := run(t, catalogXML, args...)
	require.NoError(t, err)
	_, _, err = run(t, catalogXML, args...)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	want, err := rdf.ConvertXMLToTTL([]byte(catalogXML), "https://example.org#", rdf.Some("shop"))
	require.NoError(t, err)
	assert.Equal(t, want+want, string(data))
}

func TestConvertValidateMultiLineText(t *testing.T) {
	input := "<note>line1\nline2 C:\\temp</note>"
	out, _, err := run(t, input, "convert", "--base", "https://example.org/", "--validate")
	require.NoError(t, err)
	assert.Contains(t, out, "\"line1\nline2 C:\\temp\"")

	path := filepath.Join(t.TempDir(), "out.nt")
	_, _, err = run(t, input, "convert", "--base", "https://example.org/", "--stream", "--validate", "-o", path)
	require.NoError(t, err)

	out, _, err = run(t, input, "convert", "--base", "https://example.org/", "--output-format", "canonical")
	require.NoError(t, err)
	assert.Contains(t, out, `"line1\nline2 C:\\temp"`)
}

func TestConvertOutputFormats(t *testing.T) {
	out, _, err := run(t, catalogXML, "convert", "--base", "https://example.org/", "--output-format", "jsonld")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "["))

	out, _, err = run(t, catalogXML, "convert", "--base", "https://example.org/", "--output-format", "canonical")
	require.NoError(t, err)
	assert.Equal(t, 6, strings.Count(out, "\n"))
}

func TestConvertJSONCAndLimits(t *testing.T) {
	input := "{ // note\n \"a\": {\"b\": 1}, }"
	_, _, err := run(t, input, "convert", "--base", "https://example.org", "--format", "json")
	assert.Error(t, err)

	out, _, err := run(t, input, "convert", "--base", "https://example.org", "--format", "json", "--jsonc")
	require.NoError(t, err)
	assert.Contains(t, out, `"1"`)

	_, _, err = run(t, input, "convert", "--base", "https://example.org", "--jsonc", "--max-depth", "1")
	assert.Equal(t, rdf.ErrCodeDepthExceeded, rdf.Code(err))

	_, _, err = run(t, input, "convert", "--base", "https://example.org", "--jsonc", "--max-triples", "1")
	assert.Equal(t, rdf.ErrCodeTripleLimitExceeded, rdf.Code(err))
}

func TestConvertStrictBase(t *testing.T) {
	_, _, err := run(t, "<a/>", "convert", "--base", "relative", "--strict-base")
	assert.ErrorIs(t, err, rdf.ErrInvalidNamespace)
}

func TestConvertConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeInput(t, dir, "rdfconvert.yaml", "base_uri: https://example.org#\nlabel: shop\nlog_level: debug\n")

	out, stderr, err := run(t, catalogXML, "--config", cfgPath, "convert")
	require.NoError(t, err)
	assert.Contains(t, out, "<https://example.org#shop.item1>")
	assert.Contains(t, stderr, "converted")

	// Flags win over the file.
	out, _, err = run(t, catalogXML, "--config", cfgPath, "--log-level", "off", "convert", "--label", "other")
	require.NoError(t, err)
	assert.Contains(t, out, "<https://example.org#other.item1>")
}

func TestRewrite(t *testing.T) {
	stream := "<https://decisym.ai#/item1> <https://decisym.ai/xml2rdf/model#hasValue> \"test\" .\n"
	out, _, err := run(t, stream, "rewrite", "--base", "https://example.org#", "--label", "ecospold02")
	require.NoError(t, err)
	assert.Equal(t, "<https://example.org#ecospold02.item1> <https://example.org/xml2rdf/model#ecospold02.hasValue> \"test\" .\n", out)

	dir := t.TempDir()
	in := writeInput(t, dir, "in.nt", stream)
	dest := filepath.Join(dir, "out.nt.gz")
	_, _, err = run(t, "", "rewrite", "--base", "https://example.org", in, "-o", dest)
	require.NoError(t, err)
	data, err := fileio.ReadInput(dest, 0)
	require.NoError(t, err)
	assert.NotContains(t, string(data), rdf.DefaultNamespace)

	_, _, err = run(t, stream, "rewrite", "--base", rdf.DefaultNamespace)
	assert.ErrorIs(t, err, rdf.ErrInvalidNamespace)
}
