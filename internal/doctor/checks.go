package doctor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/thoreinstein/uimpit/internal/document"
	"github.com/thoreinstein/uimpit/internal/errors"
	"github.com/thoreinstein/uimpit/internal/locale"
	"github.com/thoreinstein/uimpit/internal/validator"
	"github.com/thoreinstein/uimpit/pkg/fileutil"
)

// ConfigFileCheck reads and validates the game config file.
type ConfigFileCheck struct {
	Path string
}

var _ Check = (*ConfigFileCheck)(nil)

func (c *ConfigFileCheck) Name() string     { return "config-file" }
func (c *ConfigFileCheck) Category() string { return "config" }

// Run reports a missing file as info, since the editor starts from defaults,
// and a file that does not parse as a warning, since saving replaces it.
func (c *ConfigFileCheck) Run() *CheckResult {
	res := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{"path": c.Path},
	}

	data, err := fileutil.ReadConfigFile(c.Path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		res.Status = SeverityInfo
		res.Message = "config file does not exist; defaults will be used and written on save"
		return res
	case err != nil:
		res.Status = SeverityError
		res.Message = fmt.Sprintf("cannot read config file: %v", err)
		res.FixHint = "check that " + c.Path + " is a readable file"
		return res
	}

	doc, err := document.Parse(data)
	if err != nil {
		res.Status = SeverityWarning
		res.Message = formatJSONError(err, data) + "; saving will replace it with defaults"
		res.FixHint = "uimpit backup list, or fix the file by hand with uimpit open"
		return res
	}

	result := validator.Document(doc)
	res.Details["errors"] = len(result.Errors())
	res.Details["warnings"] = len(result.Warnings())
	switch {
	case result.HasErrors():
		res.Status = SeverityError
		res.Message = fmt.Sprintf("%d value(s) the server cannot use", len(result.Errors()))
		res.Details["fields"] = issueFields(result.Errors())
		res.FixHint = "uimpit validate"
	case result.HasWarnings():
		res.Status = SeverityWarning
		res.Message = fmt.Sprintf("%d unrecognized key(s), kept as-is", len(result.Warnings()))
		res.Details["fields"] = issueFields(result.Warnings())
	default:
		res.Status = SeverityPass
		res.Message = fmt.Sprintf("%d fields valid", len(document.Fields()))
	}
	return res
}

func issueFields(issues []validator.Issue) []string {
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		if i.Field != "" {
			out = append(out, i.Field)
		}
	}
	return out
}

// PermissionCheck validates the config file's permissions and that its
// directory accepts the temp file used for atomic saves.
type PermissionCheck struct {
	PermissionFixer
	Path string
}

var _ Check = (*PermissionCheck)(nil)
var _ Fixer = (*PermissionCheck)(nil)

func (c *PermissionCheck) Name() string     { return "config-permissions" }
func (c *PermissionCheck) Category() string { return "filesystem" }

// Run executes the permission check.
func (c *PermissionCheck) Run() *CheckResult {
	var issues []pathIssue
	checked := 0

	dir := filepath.Dir(c.Path)
	issues = append(issues, c.checkDirectory(dir)...)
	checked++

	if info, err := os.Stat(c.Path); err == nil {
		checked++
		if info.IsDir() {
			issues = append(issues, pathIssue{
				Path:     c.Path,
				Type:     "file",
				Problem:  "expected file but found directory",
				Severity: SeverityError,
			})
		} else if runtime.GOOS != "windows" {
			issues = append(issues, c.checkFilePermissions(c.Path, info.Mode())...)
		}
	}

	c.setIssues(issues)
	return c.buildResult(issues, checked)
}

// pathIssue represents a single path or permission problem.
type pathIssue struct {
	Path        string
	Type        string // "file" or "directory"
	Problem     string
	Severity    Severity
	Permissions string
	Fixable     bool
	FixHint     string
}

func (c *PermissionCheck) checkDirectory(path string) []pathIssue {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return []pathIssue{{
			Path:     path,
			Type:     "directory",
			Problem:  "directory does not exist; the config cannot be saved",
			Severity: SeverityError,
			FixHint:  "mkdir -p " + path,
		}}
	}
	if err != nil {
		return []pathIssue{{
			Path:     path,
			Type:     "directory",
			Problem:  fmt.Sprintf("cannot stat directory: %v", err),
			Severity: SeverityError,
		}}
	}
	if !info.IsDir() {
		return []pathIssue{{
			Path:     path,
			Type:     "directory",
			Problem:  "expected directory but found file",
			Severity: SeverityError,
		}}
	}

	var issues []pathIssue
	if !isDirectoryWritable(path) {
		issues = append(issues, pathIssue{
			Path:        path,
			Type:        "directory",
			Problem:     "directory is not writable; the config cannot be saved",
			Severity:    SeverityError,
			Permissions: formatPermissions(info.Mode()),
			FixHint:     "chmod u+w " + path,
		})
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o002 != 0 {
		issues = append(issues, pathIssue{
			Path:        path,
			Type:        "directory",
			Problem:     "directory is world-writable",
			Severity:    SeverityWarning,
			Permissions: formatPermissions(info.Mode()),
			Fixable:     true,
			FixHint:     "chmod 755 " + path,
		})
	}
	return issues
}

func (c *PermissionCheck) checkFilePermissions(path string, mode os.FileMode) []pathIssue {
	var issues []pathIssue
	perm := mode.Perm()

	if perm&0o002 != 0 {
		issues = append(issues, pathIssue{
			Path:        path,
			Type:        "file",
			Problem:     "file is world-writable",
			Severity:    SeverityWarning,
			Permissions: formatPermissions(mode),
			Fixable:     true,
			FixHint:     "chmod 644 " + path,
		})
	}
	if perm&0o200 == 0 {
		issues = append(issues, pathIssue{
			Path:        path,
			Type:        "file",
			Problem:     "file is read-only for its owner",
			Severity:    SeverityWarning,
			Permissions: formatPermissions(mode),
			Fixable:     true,
			FixHint:     "chmod u+w " + path,
		})
	}
	return issues
}

func isDirectoryWritable(path string) bool {
	tmp, err := os.CreateTemp(path, ".uimpit-doctor-*")
	if err != nil {
		return false
	}
	name := tmp.Name()
	tmp.Close()
	os.Remove(name)
	return true
}

func (c *PermissionCheck) buildResult(issues []pathIssue, checked int) *CheckResult {
	if len(issues) == 0 {
		return &CheckResult{
			Name:     c.Name(),
			Category: c.Category(),
			Status:   SeverityPass,
			Message:  fmt.Sprintf("all %d paths have valid permissions", checked),
		}
	}

	status := SeverityPass
	fixable := false
	var problems []string
	issueDetails := make([]map[string]any, 0, len(issues))
	for _, issue := range issues {
		status = max(status, issue.Severity)
		fixable = fixable || issue.Fixable
		problems = append(problems, issue.Problem)

		m := map[string]any{
			"path":     issue.Path,
			"type":     issue.Type,
			"problem":  issue.Problem,
			"severity": issue.Severity.String(),
		}
		if issue.Permissions != "" {
			m["permissions"] = issue.Permissions
		}
		if issue.FixHint != "" {
			m["fix_hint"] = issue.FixHint
		}
		issueDetails = append(issueDetails, m)
	}

	res := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   status,
		Message:  strings.Join(problems, "; "),
		Details: map[string]any{
			"checked_paths": checked,
			"issue_count":   len(issues),
			"issues":        issueDetails,
		},
		Fixable: fixable,
	}
	if len(issues) == 1 {
		res.FixHint = issues[0].FixHint
	} else if fixable {
		res.FixHint = "uimpit doctor --fix"
	}
	return res
}

// LanguagePackCheck reports pack files that failed to load and packs that
// lack keys present in English.
type LanguagePackCheck struct {
	Dir     string
	Catalog *locale.Catalog
	// Err is the error from loading Catalog, if any.
	Err error
}

var _ Check = (*LanguagePackCheck)(nil)

func (c *LanguagePackCheck) Name() string     { return "language-packs" }
func (c *LanguagePackCheck) Category() string { return "locale" }

func (c *LanguagePackCheck) Run() *CheckResult {
	res := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{"dir": c.Dir},
	}

	if info, err := os.Stat(c.Dir); err != nil || !info.IsDir() {
		res.Status = SeverityWarning
		res.Message = "language directory not found; only English is available"
		res.FixHint = "set lang_dir with: uimpit settings set lang_dir <dir>"
		return res
	}
	if c.Err != nil || c.Catalog == nil {
		res.Status = SeverityError
		res.Message = "cannot read language directory"
		if c.Err != nil {
			res.Details["error"] = c.Err.Error()
		}
		res.FixHint = fmt.Sprintf("chmod 755 %s", c.Dir)
		return res
	}

	var problems []string
	for _, p := range c.Catalog.Problems() {
		problems = append(problems, p.Error())
	}

	incomplete := map[string][]string{}
	for _, l := range c.Catalog.Languages() {
		if l.Code == locale.DefaultLanguage {
			continue
		}
		if missing := c.Catalog.Missing(l.Code); len(missing) > 0 {
			incomplete[l.Code] = missing
		}
	}

	langs := len(c.Catalog.Languages())
	res.Details["languages"] = langs
	switch {
	case len(problems) > 0:
		res.Status = SeverityWarning
		res.Message = fmt.Sprintf("%d language pack(s) could not be loaded", len(problems))
		res.Details["problems"] = problems
		if len(incomplete) > 0 {
			res.Details["missing_keys"] = incomplete
		}
	case len(incomplete) > 0:
		res.Status = SeverityWarning
		codes := make([]string, 0, len(incomplete))
		for code := range incomplete {
			codes = append(codes, code)
		}
		slices.Sort(codes)
		res.Message = fmt.Sprintf("incomplete language pack(s): %s; missing keys fall back to English", strings.Join(codes, ", "))
		res.Details["missing_keys"] = incomplete
	default:
		res.Status = SeverityPass
		res.Message = fmt.Sprintf("%d language pack(s) complete", langs)
	}
	return res
}

// SettingsCheck reports whether the tool's own settings loaded.
type SettingsCheck struct {
	File string
	Err  error
}

var _ Check = (*SettingsCheck)(nil)

func (c *SettingsCheck) Name() string     { return "settings" }
func (c *SettingsCheck) Category() string { return "settings" }

func (c *SettingsCheck) Run() *CheckResult {
	res := &CheckResult{Name: c.Name(), Category: c.Category()}
	if c.Err != nil {
		res.Status = SeverityError
		res.Message = c.Err.Error()
		res.FixHint = "uimpit settings list"
		return res
	}
	res.Status = SeverityPass
	res.Message = "settings valid"
	if fileutil.Exists(c.File) {
		res.Details = map[string]any{"file": c.File}
	} else {
		res.Message = "using default settings"
	}
	return res
}

func formatPermissions(mode os.FileMode) string {
	return fmt.Sprintf("%s (%s)", mode.Perm().String(), formatOctal(mode))
}

func formatOctal(mode os.FileMode) string {
	return fmt.Sprintf("%04o", mode.Perm())
}

// formatJSONError adds a line and column to JSON syntax errors.
func formatJSONError(err error, data []byte) string {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, col := offsetToLineCol(data, int(syntaxErr.Offset))
		return fmt.Sprintf("JSON syntax error at line %d, column %d: %s", line, col, syntaxErr.Error())
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return "top-level value is not an object"
	}

	return fmt.Sprintf("JSON error: %v", err)
}

// offsetToLineCol converts a byte offset to 1-indexed line and column.
func offsetToLineCol(data []byte, offset int) (line, col int) {
	offset = min(max(offset, 0), len(data))

	line = 1
	lineStart := 0
	for i := range offset {
		if data[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}

	col = offset - lineStart + 1
	return line, col
}
