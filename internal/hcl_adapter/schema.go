package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Run        *RunBlock        `hcl:"run,block"`
	Grid       *GridBlock       `hcl:"grid,block"`
	Dictionary *DictionaryBlock `hcl:"dictionary,block"`
	Filter     *FilterBlock     `hcl:"filter,block"`
	Store      *StoreBlock      `hcl:"store,block"`
	Output     *OutputBlock     `hcl:"output,block"`
	Progress   *ProgressBlock   `hcl:"progress,block"`
}

// RunBlock is the `run` block.
type RunBlock struct {
	MinWordLength *int  `hcl:"min_word_length,optional"`
	MaxIterations *int  `hcl:"max_iterations,optional"`
	FilterEnabled *bool `hcl:"filter_enabled,optional"`
	Partitions    *int  `hcl:"partitions,optional"`
	Retries       *int  `hcl:"retries,optional"`
}

// GridBlock is the `grid` block. Rows stay an expression so that both list
// and tuple literals can be converted.
type GridBlock struct {
	Dice *string        `hcl:"dice,optional"`
	Size *int           `hcl:"size,optional"`
	Seed hcl.Expression `hcl:"seed,optional"`
	Rows hcl.Expression `hcl:"rows,optional"`
	Path *string        `hcl:"path,optional"`
}

// DictionaryBlock is the `dictionary` block.
type DictionaryBlock struct {
	Path string `hcl:"path"`
}

// FilterBlock is the `filter` block.
type FilterBlock struct {
	Path string `hcl:"path"`
}

// StoreBlock is the `store` block.
type StoreBlock struct {
	Kind *string `hcl:"kind,optional"`
	Dir  *string `hcl:"dir,optional"`
	Keep *bool   `hcl:"keep,optional"`
}

// OutputBlock is the `output` block.
type OutputBlock struct {
	Path *string `hcl:"path,optional"`
}

// ProgressBlock is the `progress` block.
type ProgressBlock struct {
	URL                string  `hcl:"url"`
	Namespace          *string `hcl:"namespace,optional"`
	InsecureSkipVerify *bool   `hcl:"insecure_skip_verify,optional"`
	Timeout            *string `hcl:"timeout,optional"`
}
