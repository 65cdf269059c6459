package receiptpdf

import "testing"

func TestPageLabels(t *testing.T) {
	labels := pageLabels(3)

	want := map[int]string{
		1: "Page 1 of 3",
		2: "Page 2 of 3",
		3: "Page 3 of 3",
	}
	if len(labels) != len(want) {
		t.Fatalf("pageLabels(3) has %d entries, want %d", len(labels), len(want))
	}
	for page, label := range want {
		if labels[page] != label {
			t.Errorf("pageLabels(3)[%d] = %q, want %q", page, labels[page], label)
		}
	}
}

func TestPageLabelsSinglePage(t *testing.T) {
	labels := pageLabels(1)
	if labels[1] != "Page 1 of 1" {
		t.Errorf("pageLabels(1)[1] = %q", labels[1])
	}
}

func TestStampRejectsGarbage(t *testing.T) {
	s := newPdfcpuStamper()
	if _, err := s.Stamp([]byte("not a pdf")); err == nil {
		t.Error("Stamp() accepted non-PDF input")
	}
}
