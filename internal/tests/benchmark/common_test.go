package benchmark

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// PageSizes are the paragraph counts of generated benchmark pages.
var PageSizes = []int{10, 100, 1000}

// generatePage builds a markdown page with n paragraphs, each followed
// by a link and every tenth preceded by a heading.
func generatePage(n int) []byte {
	var b strings.Builder
	b.WriteString("# Benchmark capsule\n\n")
	for i := 0; i < n; i++ {
		if i%10 == 0 {
			fmt.Fprintf(&b, "## Section %d\n\n", i/10)
		}
		fmt.Fprintf(&b, "Paragraph %d has some *emphasis* and `code` in it.\n", i)
		fmt.Fprintf(&b, "See [post %d](gemini://example.org/post/%d) for more.\n\n", i, i)
	}
	return []byte(b.String())
}

// writePages creates count pages named page-<i>.md under a temp dir.
func writePages(b *testing.B, count, paragraphs int) string {
	b.Helper()
	dir := b.TempDir()
	page := generatePage(paragraphs)
	for i := 0; i < count; i++ {
		if err := os.WriteFile(filepath.Join(dir, fmt.Sprintf("page-%d.md", i)), page, 0o644); err != nil {
			b.Fatalf("WriteFile() error = %v", err)
		}
	}
	return dir
}

// reportMemory reports heap usage after a forced GC.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.HeapAlloc)/1024/1024, prefix+"_heap_MB")
}
