package main

import (
	"testing"

	"github.com/renderkit/renderkit/layout"
)

func TestBoxTypeNameCoversEveryBoxType(t *testing.T) {
	types := []layout.BoxType{
		layout.BlockBox, layout.InlineBox, layout.AnonymousBox, layout.TextBox,
		layout.TableBox, layout.TableRowGroupBox, layout.TableRowBox,
		layout.TableCellBox, layout.TableCaptionBox, layout.FlexBox, layout.ListItemBox,
	}
	seen := map[string]bool{}
	for _, bt := range types {
		seen[boxTypeName(bt)] = true
	}
	if len(seen) != len(types) {
		t.Errorf("expected %d distinct names, got %d: %v", len(types), len(seen), seen)
	}
}
