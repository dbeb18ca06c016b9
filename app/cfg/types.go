package cfg

type Cfg struct {
	// Notion configuration
	NotionToken string
	DatabaseID  string

	// Application configuration
	Port        string
	BaseUrl     string
	AliasesFile string

	// Normalization configuration
	StrictUntitled bool

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
