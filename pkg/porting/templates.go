package porting

import (
	"fmt"
	"path/filepath"

	"github.com/fulmenhq/tklport/pkg/ability"
)

// TemplateMode selects the per-file template variant for new adapters.
type TemplateMode string

const (
	// TemplateAuto uses the hosted variant on hosted platforms, the RTOS one otherwise.
	TemplateAuto TemplateMode = "auto"
	// TemplateBSP uses the board support variant on hosted platforms.
	TemplateBSP TemplateMode = "bsp"
	// TemplateNone disables per-file templates.
	TemplateNone TemplateMode = "none"
)

// Template variant directories below the template root.
const (
	VariantLinux = "linux"
	VariantBSP   = "bsp"
	VariantRTOS  = "rtos"
)

// DefaultTemplateRoot is the template root relative to a platform directory.
var DefaultTemplateRoot = filepath.Join("..", "..", "tools", "porting", "template")

// ParseTemplateMode validates a mode string; "" means auto.
func ParseTemplateMode(s string) (TemplateMode, error) {
	switch m := TemplateMode(s); m {
	case "":
		return TemplateAuto, nil
	case TemplateAuto, TemplateBSP, TemplateNone:
		return m, nil
	default:
		return "", fmt.Errorf("invalid template mode %q (valid: auto, bsp, none)", s)
	}
}

// TemplateVariant returns the variant directory used for new adapter files,
// or "" when templates are disabled.
func TemplateVariant(mode TemplateMode, abilities ability.Map) string {
	if mode == TemplateNone {
		return ""
	}
	if !abilities.HostedOS() {
		return VariantRTOS
	}
	if mode == TemplateBSP {
		return VariantBSP
	}
	return VariantLinux
}
