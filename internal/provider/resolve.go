package provider

import (
	"strings"

	"github.com/sells-group/nemo-provider/pkg/nemo"
)

// hostSlots names the sub-tokens of the composite host token, in order.
var hostSlots = [...]string{"Host", "Mission", "Username", "Password"}

// Resolve splits the whitespace-joined host token into host, mission,
// username and password and pairs them with formID. Missing slots are
// reported first, in slot order; extra sub-tokens only once all four
// required ones are present.
func Resolve(hostToken, formID string) (nemo.ConnectionSpec, error) {
	parts := strings.Fields(hostToken)

	if len(parts) < len(hostSlots) {
		return nemo.ConnectionSpec{}, &ParameterError{Kind: MissingParam, Field: hostSlots[len(parts)]}
	}
	if len(parts) > len(hostSlots) {
		extra := append([]string(nil), parts[len(hostSlots):]...)
		return nemo.ConnectionSpec{}, &ParameterError{Kind: ExcessParam, Extra: extra}
	}
	if formID == "" {
		return nemo.ConnectionSpec{}, &ParameterError{Kind: MissingParam, Field: "FormID"}
	}

	return nemo.ConnectionSpec{
		Host:     parts[0],
		Mission:  parts[1],
		Username: parts[2],
		Password: parts[3],
		FormID:   formID,
	}, nil
}
