// Package model 定义了与数据库表对应的 Go 结构体。
package model

import "strings"

// AllowedTag 对应 'allowed_tags' 表，是文档标签的全局白名单。
// 文档元数据里出现白名单之外（或被禁用）的标签时会被静默移除。
type AllowedTag struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`
	// Name 统一保存为去除首尾空白的小写形式。
	Name    string `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Enabled bool   `gorm:"not null;default:true" json:"enabled"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (AllowedTag) TableName() string {
	return "allowed_tags"
}

// Normalize 把标签名归一化为保存形式。
func (t *AllowedTag) Normalize() {
	t.Name = strings.ToLower(strings.TrimSpace(t.Name))
}

// BaseAllowedTags 是初始导入的基础标签集合。
var BaseAllowedTags = []string{
	"ambiente", "agricoltura", "agroalimentare", "anagrafe", "appalti",
	"arte", "assicurazioni", "associazionismo", "atti", "avvisi", "bandi",
	"biblioteche", "big data", "bilancio", "certificati", "circolari",
	"clima", "commercio", "comuni", "comunicazione", "concorrenza",
	"contenuti", "consultazioni", "cooperazione", "costituzione", "credito",
	"cultura", "design", "difesa", "direttive", "diritto d'autore",
	"economia", "editoria", "elezioni", "emergenze", "energia",
	"enti locali", "esteri", "europa", "eventi", "gare", "giustizia",
	"governo", "guide", "ict", "immigrazione", "imprenditoria", "incentivi",
	"inclusione", "industria", "informazione", "infrastrutture",
	"investimenti", "istituzioni", "istruzione", "grandi opere",
	"lavori pubblici", "lavoro", "linee guida", "manuali utente",
	"ministeri", "normative", "open data", "open source", "pagamenti",
	"pari opportunità", "parlamento", "previdenza",
	"presidente della repubblica", "privacy", "procedure", "prodotti",
	"progetti", "protezione civile", "province", "regioni", "regolamenti",
	"ricerca", "rifiuti", "riforme", "salute", "scuole", "senato",
	"servizi", "servizi sociali", "servizio civile", "sicurezza",
	"software", "sport", "stampa", "sviluppatori", "territorio",
	"transizione digitale", "trasparenza", "trasporti", "trattati",
	"tributi", "turismo", "università", "urbanistica", "volontariato",
}
