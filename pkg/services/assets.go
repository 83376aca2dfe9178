package services

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/tokamak-network/frontend-deploy/internal/consts"
	"github.com/tokamak-network/frontend-deploy/internal/utils"
	"github.com/tokamak-network/frontend-deploy/pkg/infrastructure/storage"
)

// assetPattern matches relative asset references using the characters a
// storage key may safely contain.
var assetPattern = regexp.MustCompile(`assets/(?:[a-zA-Z0-9$\-_@.&+!*(),]|%[0-9a-fA-F]{2})+`)

// RewriteAssetLinks replaces every occurrence of each distinct relative asset
// reference with its public URL under versionedPath. Occurrences already
// prefixed with that URL are left alone, so rewriting twice is a no-op.
func RewriteAssetLinks(content, bucket, versionedPath string) string {
	versionedPath = strings.Trim(versionedPath, "/")
	prefix := utils.PublicFileLink(bucket, versionedPath+"/")

	matches := assetPattern.FindAllString(content, -1)
	if len(matches) == 0 {
		return content
	}

	distinct := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		distinct[m] = struct{}{}
	}
	paths := make([]string, 0, len(distinct))
	for m := range distinct {
		paths = append(paths, m)
	}
	sort.Slice(paths, func(i, j int) bool {
		if len(paths[i]) != len(paths[j]) {
			return len(paths[i]) > len(paths[j])
		}
		return paths[i] < paths[j]
	})

	for _, p := range paths {
		content = replaceUnprefixed(content, p, prefix)
	}
	return content
}

func replaceUnprefixed(content, old, prefix string) string {
	var b strings.Builder
	b.Grow(len(content))

	rest := content
	consumed := 0
	for {
		i := strings.Index(rest, old)
		if i < 0 {
			b.WriteString(rest)
			return b.String()
		}
		b.WriteString(rest[:i])
		if !strings.HasSuffix(content[:consumed+i], prefix) {
			b.WriteString(prefix)
		}
		b.WriteString(old)
		rest = rest[i+len(old):]
		consumed += i + len(old)
	}
}

// AssetLinkRewriter republishes a built entry point with absolute asset URLs.
type AssetLinkRewriter struct {
	store storage.ObjectStore
}

func NewAssetLinkRewriter(store storage.ObjectStore) *AssetLinkRewriter {
	return &AssetLinkRewriter{store: store}
}

// Rewrite reads sourceKey, rewrites its asset links and publishes the result
// at {versionedPath}/index.html. Storage errors are returned as is.
func (r *AssetLinkRewriter) Rewrite(ctx context.Context, sourceKey, versionedPath string) error {
	content, err := r.store.Get(ctx, sourceKey)
	if err != nil {
		return err
	}

	rewritten := RewriteAssetLinks(string(content), r.store.Bucket(), versionedPath)

	return r.store.Put(ctx, utils.IndexKey(versionedPath), []byte(rewritten), storage.PutOptions{
		ContentType: consts.HTMLContentType,
		Public:      true,
	})
}
