package directive

import (
	"fmt"
	"slices"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/praetorian-inc/adocref/pkg/types"
)

// Group names a directive pattern may define.
const (
	GroupTarget = "target" // required: the path fragment
	GroupClose  = "close"  // optional: closing bracket list; unmatched means malformed
	GroupAttrs  = "attrs"  // optional: attribute list text
)

// MatchTimeout bounds a single regex evaluation.
const MatchTimeout = time.Second

// Compile compiles a directive pattern.
func Compile(d *types.Directive) (*regexp2.Regexp, error) {
	// Try RE2 mode first (no backtracking surprises)
	re, err := regexp2.Compile(d.Pattern, regexp2.RE2)
	if err != nil {
		// Fallback to .NET mode for lookarounds and other advanced features
		re, err = regexp2.Compile(d.Pattern, regexp2.None)
		if err != nil {
			return nil, fmt.Errorf("failed to compile pattern %q for directive %s: %w", d.Pattern, d.ID, err)
		}
	}
	re.MatchTimeout = MatchTimeout

	if !slices.Contains(re.GetGroupNames(), GroupTarget) {
		return nil, fmt.Errorf("pattern for directive %s has no %q group", d.ID, GroupTarget)
	}
	return re, nil
}
