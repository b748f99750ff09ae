package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrg() *OrgContext {
	return &OrgContext{
		Slug:           "ministero-documentazione",
		URL:            "https://github.com/ministero-documentazione",
		ConfigRepoName: "italia-conf",
	}
}

// TestValidatePublisherMetadata 验证发布者配置的校验规则。
func TestValidatePublisherMetadata(t *testing.T) {
	t.Run("完整配置", func(t *testing.T) {
		raw := `
publisher:
  name: Ministero della Documentazione
  description: Documentazione ufficiale
  short_name: MinDoc
  website: https://www.example.gov.it
  tags:
    - documentazione
  logo: assets/images/logo.svg
`
		meta, err := ValidatePublisherMetadata(testOrg(), raw)
		require.NoError(t, err)
		assert.Equal(t, "Ministero della Documentazione", meta.Name)
		assert.Equal(t, "MinDoc", meta.ShortName)
		// logo 的相对路径展开成原始内容的绝对地址
		assert.Equal(t,
			"https://raw.githubusercontent.com/ministero-documentazione/italia-conf/master/assets/images/logo.svg",
			meta.LogoURL)
	})

	t.Run("缺少 name", func(t *testing.T) {
		raw := "publisher:\n  description: solo descrizione\n"
		_, err := ValidatePublisherMetadata(testOrg(), raw)
		var merr *InvalidMetadataError
		require.ErrorAs(t, err, &merr)
		assert.Equal(t, "name", merr.Field)
		assert.Contains(t, err.Error(), `missing required field "name"`)
	})

	t.Run("缺少 publisher 区块", func(t *testing.T) {
		_, err := ValidatePublisherMetadata(testOrg(), "altro: valore\n")
		var merr *InvalidMetadataError
		require.ErrorAs(t, err, &merr)
		assert.Empty(t, merr.Field)
		assert.Contains(t, err.Error(), "general error in parsing")
	})

	t.Run("logo 展开跟随配置的原始内容地址", func(t *testing.T) {
		raw := `
publisher:
  name: Ministero della Documentazione
  description: Documentazione ufficiale
  logo: logo.svg
`
		org := testOrg()
		org.RawBaseURL = "https://raw.gitea.example.it/"
		meta, err := ValidatePublisherMetadata(org, raw)
		require.NoError(t, err)
		assert.Equal(t,
			"https://raw.gitea.example.it/ministero-documentazione/italia-conf/master/logo.svg",
			meta.LogoURL)
	})

	t.Run("没有组织上下文时不展开 logo", func(t *testing.T) {
		raw := `
publisher:
  name: Ministero
  description: desc
  logo: logo.svg
`
		meta, err := ValidatePublisherMetadata(nil, raw)
		require.NoError(t, err)
		assert.Empty(t, meta.LogoURL)
		assert.Equal(t, "logo.svg", meta.Logo)
	})
}

// TestValidateProjectsMetadata 验证项目列表配置的校验规则。
func TestValidateProjectsMetadata(t *testing.T) {
	t.Run("文档展开与 slug 派生", func(t *testing.T) {
		raw := `
projects:
  - name: Anagrafe Nazionale
    short_name: ANPR
    description: Progetto anagrafe
    documents:
      - anpr-manuale
      - anpr-norme
  - name: Fatturazione Elettronica
    description: Progetto fatturazione
    documents:
      - fattura-docs
`
		meta, err := ValidateProjectsMetadata(testOrg(), raw)
		require.NoError(t, err)
		require.Len(t, meta.Projects, 2)

		first := meta.Projects[0]
		// slug 优先取 short_name
		assert.Equal(t, "anpr", first.Slug)
		require.Len(t, first.Documents, 2)
		assert.Equal(t, "anpr-manuale", first.Documents[0].Repository)
		assert.Equal(t,
			"https://github.com/ministero-documentazione/anpr-manuale",
			first.Documents[0].RepoURL)

		// 缺省 short_name 时 slug 从 name 派生
		assert.Equal(t, "fatturazione-elettronica", meta.Projects[1].Slug)
	})

	t.Run("没有组织上下文时不展开 repo_url", func(t *testing.T) {
		raw := `
projects:
  - name: Anagrafe
    description: Progetto anagrafe
    documents:
      - anpr-manuale
`
		meta, err := ValidateProjectsMetadata(nil, raw)
		require.NoError(t, err)
		require.Len(t, meta.Projects, 1)
		assert.Equal(t, "anpr-manuale", meta.Projects[0].Documents[0].RepoURL)
	})

	t.Run("documents 为空是校验错误", func(t *testing.T) {
		raw := `
projects:
  - name: Progetto Vuoto
    description: senza documenti
    documents: []
`
		_, err := ValidateProjectsMetadata(testOrg(), raw)
		var merr *InvalidMetadataError
		require.ErrorAs(t, err, &merr)
		assert.Equal(t, "documents", merr.Field)
		assert.Equal(t, "Progetto Vuoto", merr.In)
	})

	t.Run("缺少 projects 列表", func(t *testing.T) {
		_, err := ValidateProjectsMetadata(testOrg(), "projects: non-una-lista\n")
		var merr *InvalidMetadataError
		require.ErrorAs(t, err, &merr)
		assert.Empty(t, merr.Field)
	})

	t.Run("项目缺少 description", func(t *testing.T) {
		raw := `
projects:
  - name: Solo Nome
    documents:
      - repo
`
		_, err := ValidateProjectsMetadata(testOrg(), raw)
		var merr *InvalidMetadataError
		require.ErrorAs(t, err, &merr)
		assert.Equal(t, "description", merr.Field)
	})
}

// TestValidateDocumentMetadata 验证文档配置的校验与标签过滤。
func TestValidateDocumentMetadata(t *testing.T) {
	allowed := map[string]struct{}{
		"anagrafe":   {},
		"fisco":      {},
		"istruzione": {},
	}

	t.Run("标签归一化并与白名单求交集", func(t *testing.T) {
		raw := `
document:
  name: Manuale operatore
  description: Manuale per gli operatori
  language: it
  tags:
    - " Anagrafe "
    - anagrafe
    - sconosciuto
    - FISCO
`
		meta, err := ValidateDocumentMetadata(raw, allowed)
		require.NoError(t, err)
		// 去重、小写、白名单外的静默丢弃
		assert.Equal(t, []string{"anagrafe", "fisco"}, meta.Tags)
		assert.Equal(t, "it", meta.Language)
	})

	t.Run("所有标签都不在白名单不是错误", func(t *testing.T) {
		raw := `
document:
  name: Documento
  description: desc
  tags:
    - sconosciuto
`
		meta, err := ValidateDocumentMetadata(raw, allowed)
		require.NoError(t, err)
		assert.Empty(t, meta.Tags)
	})

	t.Run("tags 缺失是校验错误", func(t *testing.T) {
		raw := "document:\n  name: Documento\n  description: desc\n"
		_, err := ValidateDocumentMetadata(raw, allowed)
		var merr *InvalidMetadataError
		require.ErrorAs(t, err, &merr)
		assert.Equal(t, "tags", merr.Field)
	})
}
