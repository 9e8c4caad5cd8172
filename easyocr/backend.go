package easyocr

// ReaderOptions 构造 Reader 的参数, 对应 easyocr.Reader(...)
type ReaderOptions struct {
	LangList              []string
	ModelStorageDirectory string
	UserNetworkDirectory  string
	DownloadEnabled       bool
	GPU                   bool
	Verbose               bool
}

// ReadOptions 单次识别的参数, 对应 Reader.readtext(...)
type ReadOptions struct {
	Detail       int
	Decoder      string
	RotationInfo []uint16
	Workers      uint
	Paragraph    bool
}

// Backend 托管 OCR 引擎的外部运行时
type Backend interface {
	NewReader(opts ReaderOptions) (Reader, error)
}

// Reader 外部引擎实例的句柄, 不可重入, 只能在全局锁内访问
type Reader interface {
	ReadText(image []byte, opts ReadOptions) ([]RawDetection, error)
	Destroy()
}
