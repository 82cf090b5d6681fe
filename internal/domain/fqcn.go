package domain

import (
	"regexp"
	"strings"
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsValidFQCN reports whether s has at least three dot-separated segments,
// each a valid identifier.
func IsValidFQCN(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) < 3 {
		return false
	}
	for _, p := range parts {
		if !identifierRe.MatchString(p) {
			return false
		}
	}
	return true
}

// CollectionOf returns the namespace.collection prefix of a valid FQCN.
func CollectionOf(fqcn string) string {
	parts := strings.Split(fqcn, ".")
	if len(parts) < 3 {
		return ""
	}
	return parts[0] + "." + parts[1]
}

// TaskDirectives are task keywords that control execution and never name a module.
var TaskDirectives = map[string]bool{
	"action":             true,
	"any_errors_fatal":   true,
	"args":               true,
	"async":              true,
	"become":             true,
	"become_exe":         true,
	"become_flags":       true,
	"become_method":      true,
	"become_user":        true,
	"changed_when":       true,
	"check_mode":         true,
	"collections":        true,
	"connection":         true,
	"debugger":           true,
	"delay":              true,
	"delegate_facts":     true,
	"delegate_to":        true,
	"diff":               true,
	"environment":        true,
	"failed_when":        true,
	"ignore_errors":      true,
	"ignore_unreachable": true,
	"listen":             true,
	"local_action":       true,
	"loop":               true,
	"loop_control":       true,
	"module_defaults":    true,
	"name":               true,
	"no_log":             true,
	"notify":             true,
	"poll":               true,
	"port":               true,
	"register":           true,
	"remote_user":        true,
	"retries":            true,
	"run_once":           true,
	"tags":               true,
	"throttle":           true,
	"timeout":            true,
	"until":              true,
	"vars":               true,
	"when":               true,
	"block":              true,
	"rescue":             true,
	"always":             true,
}

// IsDirective reports whether key is a task directive, including with_* loops.
func IsDirective(key string) bool {
	return TaskDirectives[key] || strings.HasPrefix(key, "with_")
}
