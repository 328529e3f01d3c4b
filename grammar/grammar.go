package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// LevelSpec is the textual form of an optimization level. Three spellings
// are accepted:
//
//	default<O2>   the name LLVM gives to the default pipeline
//	O2            the bare level
//	-O2           the compiler flag
type LevelSpec struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	Pipeline *PipelineSpec `  @@`
	Flag     *FlagSpec     `| @@`
}

type PipelineSpec struct {
	Pos   lexer.Position
	Name  string `@"default" "<"`
	Level string `@Level ">"`
}

type FlagSpec struct {
	Pos   lexer.Position
	Dash  bool   `@"-"?`
	Level string `@Level`
}

// LevelName returns the level named by the spec, e.g. "O2".
func (s *LevelSpec) LevelName() string {
	if s.Pipeline != nil {
		return s.Pipeline.Level
	}
	return s.Flag.Level
}
