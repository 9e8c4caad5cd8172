package easyocr

// Decoder 识别阶段的解码策略
type Decoder string

const (
	DecoderGreedy         Decoder = "greedy"
	DecoderBeamSearch     Decoder = "beamsearch"
	DecoderWordBeamSearch Decoder = "wordbeamsearch"
)

// Valid 是否为 easyocr 支持的解码器
func (d Decoder) Valid() bool {
	switch d {
	case DecoderGreedy, DecoderBeamSearch, DecoderWordBeamSearch:
		return true
	}
	return false
}

// RunArgs 单次识别参数, 零值与 DefaultRunArgs 等价
type RunArgs struct {
	Decoder   Decoder  // 非法值在调用时回退为 greedy
	Rotations []uint16 // 额外尝试的旋转角度, 引擎返回置信度最高的结果
	CPUs      uint     // 0 表示由引擎决定
	Paragraph bool     // 合并相邻文本框为段落
}

// DefaultRunArgs 默认参数
func DefaultRunArgs() RunArgs {
	return RunArgs{Decoder: DecoderGreedy}
}

// decoder 实际使用的解码器
func (a RunArgs) decoder() Decoder {
	if a.Decoder.Valid() {
		return a.Decoder
	}
	return DecoderGreedy
}
