package export

import "contentworks/csvexport/pkg/config"

// DefaultDelimiter is used when no separator is configured.
const DefaultDelimiter = ","

// ContentType is a content type that can be listed for export.
type ContentType struct {
	Key  string
	Name string
}

// Policy decides which content types may be exported and supplies their
// file names and delimiter.
type Policy struct {
	known      []ContentType
	knownSet   map[string]struct{}
	disabled   map[string]struct{}
	fileNames  map[string]string
	separator  string
	permission string
}

// NewPolicy creates a policy from the export configuration. A nil list of
// content types means every key is considered known.
func NewPolicy(cfg *config.ExportConfig) *Policy {
	p := &Policy{
		fileNames:  make(map[string]string, len(cfg.FileNames)),
		separator:  cfg.Separator,
		permission: cfg.Permission,
	}

	for k, v := range cfg.FileNames {
		p.fileNames[k] = v
	}

	if cfg.Disabled != nil {
		p.disabled = make(map[string]struct{}, len(cfg.Disabled))
		for _, key := range cfg.Disabled {
			p.disabled[key] = struct{}{}
		}
	}

	if cfg.ContentTypes != nil {
		p.knownSet = make(map[string]struct{}, len(cfg.ContentTypes))
		for _, ct := range cfg.ContentTypes {
			name := ct.Name
			if name == "" {
				name = ct.Key
			}
			p.known = append(p.known, ContentType{Key: ct.Key, Name: name})
			p.knownSet[ct.Key] = struct{}{}
		}
	}

	return p
}

// IsExportable reports whether key may be exported. Matching is exact and
// case-sensitive.
func (p *Policy) IsExportable(key string) bool {
	if p.disabled != nil {
		if _, off := p.disabled[key]; off {
			return false
		}
	}
	if p.knownSet != nil {
		if _, ok := p.knownSet[key]; !ok {
			return false
		}
	}
	return true
}

// AvailableExports returns the known content types that are not disabled, in
// configuration order.
func (p *Policy) AvailableExports() []ContentType {
	out := make([]ContentType, 0, len(p.known))
	for _, ct := range p.known {
		if p.IsExportable(ct.Key) {
			out = append(out, ct)
		}
	}
	return out
}

// FilenameFor returns the configured file name for key, or key itself.
func (p *Policy) FilenameFor(key string) string {
	if name, ok := p.fileNames[key]; ok && name != "" {
		return name
	}
	return key
}

// DelimiterFor returns the field delimiter for key.
func (p *Policy) DelimiterFor(string) string {
	if p.separator == "" {
		return DefaultDelimiter
	}
	return p.separator
}

// Permission returns the permission tag guarding the export listing.
func (p *Policy) Permission() string {
	return p.permission
}
