package cloudinary

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Hansraja/MegaMarket/internal/infrastructure/storage"
)

// BuildURL derives a delivery URL for a stored object key. The
// transformation chain has a fixed component order: width, height, crop
// (default scale), fetch format (default auto), quality (default auto),
// then effects. Absent width/height are omitted entirely.
func BuildURL(cloudName, publicID string, t storage.Transformation) string {
	var chain []string
	if t.Width > 0 {
		chain = append(chain, fmt.Sprintf("w_%d", t.Width))
	}
	if t.Height > 0 {
		chain = append(chain, fmt.Sprintf("h_%d", t.Height))
	}

	crop := t.Crop
	if crop == "" {
		crop = "scale"
	}
	chain = append(chain, "c_"+crop)

	format := t.Format
	if format == "" {
		format = "auto"
	}
	chain = append(chain, "f_"+format)

	if t.Quality > 0 {
		chain = append(chain, fmt.Sprintf("q_%d", t.Quality))
	} else {
		chain = append(chain, "q_auto")
	}

	// Deterministic effect order.
	names := make([]string, 0, len(t.Effects))
	for name := range t.Effects {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		chain = append(chain, fmt.Sprintf("e_%s:%d", name, t.Effects[name]))
	}

	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/%s/%s",
		cloudName, strings.Join(chain, "/"), publicID)
}
