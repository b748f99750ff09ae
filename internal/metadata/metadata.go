package metadata

import (
	"fmt"
	"strings"
)

// SettingsKind 标识三类配置文件，值即为配置仓库内的相对路径。
type SettingsKind string

const (
	// PublisherSettings 是发布者配置文件，位于发布者的配置仓库根目录。
	PublisherSettings SettingsKind = "publisher_settings.yml"
	// ProjectsSettings 是项目列表配置文件，位于发布者的配置仓库根目录。
	ProjectsSettings SettingsKind = "projects_settings.yml"
	// DocumentSettings 是文档配置文件，位于每个文档自己的仓库根目录。
	DocumentSettings SettingsKind = "document_settings.yml"
)

// Path 返回该配置文件相对仓库默认分支根目录的路径。
func (k SettingsKind) Path() string {
	return string(k)
}

// defaultRawBaseURL 是原始文件托管服务的默认地址，与抓取器的默认配置一致。
const defaultRawBaseURL = "https://raw.githubusercontent.com"

// RawContentURL 构造某个组织仓库内文件的原始内容地址，约定取默认分支 master。
// base 为空时使用默认的托管服务地址。
func RawContentURL(base, org, repo, path string) string {
	if base == "" {
		base = defaultRawBaseURL
	}
	return fmt.Sprintf("%s/%s/%s/master/%s",
		strings.TrimRight(base, "/"), org, repo, strings.TrimLeft(path, "/"))
}

// OrgContext 携带校验时需要的组织上下文：组织的 slug、仓库主页根地址、
// 存放配置文件的仓库名以及原始内容服务的根地址。
type OrgContext struct {
	Slug           string
	URL            string
	ConfigRepoName string
	RawBaseURL     string
}

// PublisherMetadata 是校验后的发布者配置。
type PublisherMetadata struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ShortName   string   `json:"short_name,omitempty"`
	Website     string   `json:"website,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Logo        string   `json:"logo,omitempty"`
	LogoURL     string   `json:"logo_url,omitempty"`
}

// ProjectsMetadata 是校验后的项目列表配置。
type ProjectsMetadata struct {
	Projects []ProjectEntry `json:"projects"`
}

// ProjectEntry 是项目列表中的一个条目，documents 里的裸仓库名
// 在校验时被展开为 {repository, repo_url}。
type ProjectEntry struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	ShortName   string        `json:"short_name,omitempty"`
	Website     string        `json:"website,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	Slug        string        `json:"slug"`
	Documents   []DocumentRef `json:"documents"`
}

// DocumentRef 指向一个文档仓库，repo_url 是连接文档与项目分组的键。
type DocumentRef struct {
	Repository string `json:"repository"`
	RepoURL    string `json:"repo_url"`
}

// DocumentMetadata 是校验后的文档配置。
type DocumentMetadata struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Language    string   `json:"language,omitempty"`
	Tags        []string `json:"tags"`
}

// ValidatePublisherMetadata 校验发布者配置。
// 必填字段 name 和 description 不能为空；若声明了 logo 且组织上下文
// 可用，则把相对路径展开成绝对的原始内容地址存入 logo_url。
func ValidatePublisherMetadata(org *OrgContext, raw string) (*PublisherMetadata, error) {
	data, err := Load(raw)
	if err != nil {
		return nil, err
	}

	section, ok := asMap(data["publisher"])
	if !ok {
		return nil, generalError(PublisherSettings)
	}

	meta := &PublisherMetadata{
		Name:        asString(section["name"]),
		Description: asString(section["description"]),
		ShortName:   asString(section["short_name"]),
		Website:     asString(section["website"]),
		Logo:        asString(section["logo"]),
	}
	for _, field := range []string{"name", "description"} {
		if strings.TrimSpace(asString(section[field])) == "" {
			return nil, missingField(PublisherSettings, field, "publisher")
		}
	}
	if tags, ok := section["tags"]; ok {
		list, ok := asStringSlice(tags)
		if !ok {
			return nil, generalError(PublisherSettings)
		}
		meta.Tags = list
	}

	if meta.Logo != "" && org != nil && org.Slug != "" && org.ConfigRepoName != "" {
		meta.LogoURL = RawContentURL(org.RawBaseURL, org.Slug, org.ConfigRepoName, meta.Logo)
	}
	return meta, nil
}

// ValidateProjectsMetadata 校验项目列表配置。
// 每个项目必须有 name、description 和非空的 documents 列表；
// documents 里的裸仓库名展开为 {repository, repo_url}，slug 由
// short_name（缺省时 name）slug 化得到。同一列表里的 slug 冲突
// 不在这里去重，由发布者维度的 upsert 负责。
func ValidateProjectsMetadata(org *OrgContext, raw string) (*ProjectsMetadata, error) {
	data, err := Load(raw)
	if err != nil {
		return nil, err
	}

	rawProjects, ok := asSlice(data["projects"])
	if !ok {
		return nil, generalError(ProjectsSettings)
	}

	meta := &ProjectsMetadata{Projects: make([]ProjectEntry, 0, len(rawProjects))}
	for _, rawProject := range rawProjects {
		section, ok := asMap(rawProject)
		if !ok {
			return nil, generalError(ProjectsSettings)
		}

		entry := ProjectEntry{
			Name:        asString(section["name"]),
			Description: asString(section["description"]),
			ShortName:   asString(section["short_name"]),
			Website:     asString(section["website"]),
		}
		for _, field := range []string{"name", "description"} {
			if strings.TrimSpace(asString(section[field])) == "" {
				return nil, missingField(ProjectsSettings, field, entry.Name)
			}
		}
		if tags, ok := section["tags"]; ok {
			list, ok := asStringSlice(tags)
			if !ok {
				return nil, generalError(ProjectsSettings)
			}
			entry.Tags = list
		}

		rawDocs, ok := asSlice(section["documents"])
		if !ok || len(rawDocs) == 0 {
			return nil, missingField(ProjectsSettings, "documents", entry.Name)
		}
		for _, rawDoc := range rawDocs {
			repo := asString(rawDoc)
			if repo == "" {
				return nil, missingField(ProjectsSettings, "documents", entry.Name)
			}
			ref := DocumentRef{Repository: repo, RepoURL: repo}
			if org != nil && org.URL != "" {
				ref.RepoURL = fmt.Sprintf("%s/%s", strings.TrimRight(org.URL, "/"), repo)
			}
			entry.Documents = append(entry.Documents, ref)
		}

		nameForSlug := entry.ShortName
		if nameForSlug == "" {
			nameForSlug = entry.Name
		}
		entry.Slug = Slugify(nameForSlug)

		meta.Projects = append(meta.Projects, entry)
	}
	return meta, nil
}

// ValidateDocumentMetadata 校验文档配置。
// 必填字段 name、description 和非空的 tags 列表；tags 会被去除
// 首尾空白并转为小写，再与启用的标签白名单求交集，未知或被禁用
// 的标签静默丢弃，不算错误。
func ValidateDocumentMetadata(raw string, allowedTags map[string]struct{}) (*DocumentMetadata, error) {
	data, err := Load(raw)
	if err != nil {
		return nil, err
	}

	section, ok := asMap(data["document"])
	if !ok {
		return nil, generalError(DocumentSettings)
	}

	meta := &DocumentMetadata{
		Name:        asString(section["name"]),
		Description: asString(section["description"]),
		Language:    asString(section["language"]),
	}
	for _, field := range []string{"name", "description"} {
		if strings.TrimSpace(asString(section[field])) == "" {
			return nil, missingField(DocumentSettings, field, "document")
		}
	}

	rawTags, ok := asStringSlice(section["tags"])
	if !ok || len(rawTags) == 0 {
		return nil, missingField(DocumentSettings, "tags", "document")
	}
	meta.Tags = filterAllowedTags(rawTags, allowedTags)

	return meta, nil
}

// filterAllowedTags 归一化标签并与白名单求交集，保留输入顺序、去重。
func filterAllowedTags(tags []string, allowed map[string]struct{}) []string {
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		normalized := strings.ToLower(strings.TrimSpace(tag))
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		if _, ok := allowed[normalized]; ok {
			result = append(result, normalized)
		}
	}
	return result
}

// asMap 尝试把 YAML 解析出的值转换为映射。
func asMap(v interface{}) (map[string]interface{}, bool) {
	m, ok := v.(map[string]interface{})
	return m, ok
}

// asSlice 尝试把 YAML 解析出的值转换为列表。
func asSlice(v interface{}) ([]interface{}, bool) {
	s, ok := v.([]interface{})
	return s, ok
}

// asString 把 YAML 解析出的标量转换为字符串，非字符串返回空串。
func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// asStringSlice 把 YAML 解析出的列表转换为字符串切片。
func asStringSlice(v interface{}) ([]string, bool) {
	raw, ok := asSlice(v)
	if !ok {
		return nil, false
	}
	result := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		result = append(result, s)
	}
	return result, true
}
