package garden

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/gorewood/garden/internal/scratch"
)

// EntryExt is the file extension of garden entries.
const EntryExt = ".md"

// MaxSlugLength bounds the slug part of an entry name, in bytes.
const MaxSlugLength = 60

// timestampLayout names untitled entries. Fixed-width fields keep names in
// creation order under a plain lexical sort.
const timestampLayout = "2006-01-02-150405.000"

// maxCandidates bounds the numeric suffixes tried for one base name.
const maxCandidates = 10000

// stampSuffixWidth zero-pads the disambiguator of untitled names to the
// width of maxCandidates, so "stamp_00002.md" sorts after "stamp.md" and
// before the next millisecond's name.
const stampSuffixWidth = 5

// letterExpansions spells out letters that have no decomposition.
var letterExpansions = strings.NewReplacer(
	"ß", "ss",
	"æ", "ae",
	"œ", "oe",
	"þ", "th",
)

// foldLetter maps stroked letters, which also lack a decomposition, to
// their base letter.
func foldLetter(r rune) rune {
	switch r {
	case 'ø':
		return 'o'
	case 'đ', 'ð':
		return 'd'
	case 'ł':
		return 'l'
	case 'ħ':
		return 'h'
	case 'ı':
		return 'i'
	}
	return r
}

// Slug turns a title into a filesystem-safe name fragment: diacritics are
// folded, letters lowercased, and every run of other characters collapsed
// into a single hyphen. Returns "" when nothing usable remains.
func Slug(title string) string {
	lower := letterExpansions.Replace(strings.ToLower(title))
	folded, _, err := transform.String(
		transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), runes.Map(foldLetter), norm.NFC), lower)
	if err != nil {
		folded = lower
	}

	var b strings.Builder
	separate := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if separate && b.Len() > 0 {
				b.WriteByte('-')
			}
			separate = false
			b.WriteRune(r)
			continue
		}
		separate = true
	}

	slug := b.String()
	if len(slug) > MaxSlugLength {
		slug = strings.TrimRight(slug[:MaxSlugLength], "-")
	}
	return slug
}

// DeriveName returns the base file name for a draft: the title slug, or the
// UTC creation time when the draft has no usable title.
func DeriveName(d *scratch.Draft) string {
	if slug := Slug(d.Title); slug != "" {
		return slug + EntryExt
	}
	stamp := d.CreatedAt.UTC().Format(timestampLayout)
	return strings.ReplaceAll(stamp, ".", "-") + EntryExt
}

// candidateName returns the nth name to try for base: base itself, then
// stem-2.ext, stem-3.ext, and so on. Untitled names take a zero-padded
// stem_00002.ext suffix instead, which keeps them in creation order.
func candidateName(base string, n int) string {
	if n <= 1 {
		return base
	}
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if isStampName(stem) {
		return fmt.Sprintf("%s_%0*d%s", stem, stampSuffixWidth, n, ext)
	}
	return stem + "-" + strconv.Itoa(n) + ext
}

// isStampName reports whether stem is a DeriveName timestamp.
func isStampName(stem string) bool {
	i := strings.LastIndexByte(stem, '-')
	if i < 0 {
		return false
	}
	_, err := time.Parse(timestampLayout, stem[:i]+"."+stem[i+1:])
	return err == nil
}

// ResolveCollision returns the first candidate for name that does not exist
// in root. The answer is only a snapshot; Commit re-checks when it claims a
// name.
func ResolveCollision(name, root string) (string, error) {
	for n := 1; n <= maxCandidates; n++ {
		candidate := candidateName(name, n)
		_, err := os.Lstat(filepath.Join(root, candidate))
		if errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
		if err != nil {
			return "", persistError("cannot check entry name "+candidate, err)
		}
	}
	return "", persistError(fmt.Sprintf("no free name for %s after %d attempts", name, maxCandidates), nil)
}
