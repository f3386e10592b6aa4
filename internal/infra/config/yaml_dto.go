package config

type YAMLConfig struct {
	Preprints YAMLPreprints `yaml:"preprints"`
}

type YAMLPreprints struct {
	API struct {
		URL     string `yaml:"url"`
		Token   string `yaml:"token"`
		Timeout string `yaml:"timeout"`
	} `yaml:"api"`

	Search struct {
		URL string `yaml:"url"`
	} `yaml:"search"`

	Web struct {
		URL    string `yaml:"url"`
		Listen string `yaml:"listen"`
	} `yaml:"web"`

	Brands []string `yaml:"brands"`

	Taxonomy struct {
		PageSize      *int `yaml:"page_size"`
		RootsPageSize *int `yaml:"roots_page_size"`
	} `yaml:"taxonomy"`

	Upload struct {
		Provider string `yaml:"provider"`
	} `yaml:"upload"`

	Analytics struct {
		Enabled *bool  `yaml:"enabled"`
		File    string `yaml:"file"`
	} `yaml:"analytics"`
}

type YAMLDraft struct {
	Project struct {
		ID    string `yaml:"id"`
		Title string `yaml:"title"`
		Child bool   `yaml:"child"`
	} `yaml:"project"`

	File struct {
		Path string `yaml:"path"`
		Name string `yaml:"name"`
	} `yaml:"file"`

	Title    string     `yaml:"title"`
	Abstract string     `yaml:"abstract"`
	DOI      string     `yaml:"doi"`
	Tags     []string   `yaml:"tags"`
	Subjects [][]string `yaml:"subjects"`
	Provider string     `yaml:"provider"`
}
