package controller

import "github.com/clipstream/clipstream/internal/clip"

const (
	NoClipsMessage = "No clips found."
	TopicsHeading  = "Detected Topics:"
)

type BlockKind int

const (
	BlockVideo BlockKind = iota
	BlockMessage
	BlockHeading
	BlockTopic
)

func (k BlockKind) String() string {
	switch k {
	case BlockVideo:
		return "video"
	case BlockMessage:
		return "message"
	case BlockHeading:
		return "heading"
	case BlockTopic:
		return "topic"
	default:
		return "unknown"
	}
}

// Block is one rendered element of the results area.
type Block struct {
	Kind BlockKind
	// Src is the clip reference for BlockVideo.
	Src string
	// Text is set for BlockMessage and BlockHeading.
	Text        string
	Label       string
	Description string
}

// View is the ordered content of the results area. The zero View is an empty
// area.
type View struct {
	Blocks []Block
}

func (v View) Empty() bool {
	return len(v.Blocks) == 0
}

// Clips returns the sources of all video blocks, in order.
func (v View) Clips() []string {
	var out []string
	for _, b := range v.Blocks {
		if b.Kind == BlockVideo {
			out = append(out, b.Src)
		}
	}
	return out
}

// Render lays out a result: one video per clip or the no-clips message, then,
// only when topics exist, a heading and one block per topic.
func Render(r clip.Result) View {
	blocks := make([]Block, 0, len(r.Clips)+len(r.Topics)+1)

	if len(r.Clips) > 0 {
		for _, c := range r.Clips {
			blocks = append(blocks, Block{Kind: BlockVideo, Src: c})
		}
	} else {
		blocks = append(blocks, Block{Kind: BlockMessage, Text: NoClipsMessage})
	}

	if len(r.Topics) > 0 {
		blocks = append(blocks, Block{Kind: BlockHeading, Text: TopicsHeading})
		for _, t := range r.Topics {
			blocks = append(blocks, Block{Kind: BlockTopic, Label: t.Label, Description: t.Description})
		}
	}

	return View{Blocks: blocks}
}
