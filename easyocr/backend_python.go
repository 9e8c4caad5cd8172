package easyocr

import (
	"fmt"

	ocr "github.com/getcharzp/go-easyocr"
	"github.com/getcharzp/go-easyocr/internal/python"
	"github.com/up-zero/gotool/convertutil"
)

// pythonBackend 进程内 CPython 托管的 easyocr
type pythonBackend struct {
	cfg python.Config
}

func newPythonBackend(cfg Config) *pythonBackend {
	pc := new(python.Config)
	_ = convertutil.CopyProperties(cfg, pc)
	if pc.PythonLibPath == "" {
		pc.LibraryCandidates = ocr.LibraryCandidates()
	}
	return &pythonBackend{cfg: *pc}
}

func (b *pythonBackend) NewReader(opts ReaderOptions) (Reader, error) {
	interp, err := python.Load(b.cfg)
	if err != nil {
		return nil, err
	}

	var reader python.Object
	err = interp.Do(func(t *python.Thread) error {
		mod, err := t.Import("easyocr")
		if err != nil {
			return fmt.Errorf("导入 easyocr 失败: %w", err)
		}
		defer t.Release(mod)

		cls, err := t.GetAttr(mod, "Reader")
		if err != nil {
			return err
		}
		defer t.Release(cls)

		kwargs, err := t.NewDict()
		if err != nil {
			return err
		}
		defer t.Release(kwargs)

		langs := make([]python.Object, 0, len(opts.LangList))
		for _, l := range opts.LangList {
			langs = append(langs, t.Str(l))
		}
		items := []struct {
			key string
			val python.Object
		}{
			{"lang_list", t.List(langs...)},
			{"model_storage_directory", t.Str(opts.ModelStorageDirectory)},
			{"user_network_directory", t.Str(opts.UserNetworkDirectory)},
			{"download_enabled", t.Bool(opts.DownloadEnabled)},
			{"gpu", t.Bool(opts.GPU)},
			{"verbose", t.Bool(opts.Verbose)},
		}
		for i, it := range items {
			if err := t.SetItem(kwargs, it.key, it.val); err != nil {
				for _, rest := range items[i+1:] {
					t.Release(rest.val)
				}
				return err
			}
		}

		reader, err = t.Call(cls, nil, kwargs)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &pythonReader{interp: interp, reader: reader}, nil
}

// pythonReader 持有 easyocr.Reader 实例的引用
type pythonReader struct {
	interp *python.Interpreter
	reader python.Object
}

func (r *pythonReader) ReadText(image []byte, opts ReadOptions) ([]RawDetection, error) {
	var out []RawDetection
	err := r.interp.Do(func(t *python.Thread) error {
		kwargs, err := t.NewDict()
		if err != nil {
			return err
		}
		defer t.Release(kwargs)

		rotations := make([]python.Object, 0, len(opts.RotationInfo))
		for _, deg := range opts.RotationInfo {
			rotations = append(rotations, t.Int(int64(deg)))
		}
		items := []struct {
			key string
			val python.Object
		}{
			{"detail", t.Int(int64(opts.Detail))},
			{"decoder", t.Str(opts.Decoder)},
			{"rotation_info", t.List(rotations...)},
			{"workers", t.Int(int64(opts.Workers))},
			{"paragraph", t.Bool(opts.Paragraph)},
		}
		for i, it := range items {
			if err := t.SetItem(kwargs, it.key, it.val); err != nil {
				for _, rest := range items[i+1:] {
					t.Release(rest.val)
				}
				return err
			}
		}

		res, err := t.CallMethod(r.reader, "readtext", []python.Object{t.Bytes(image)}, kwargs)
		if err != nil {
			return err
		}
		defer t.Release(res)

		out, err = decodeDetections(t, res, opts.Paragraph)
		return err
	})
	return out, err
}

func (r *pythonReader) Destroy() {
	_ = r.interp.Do(func(t *python.Thread) error {
		t.Release(r.reader)
		return nil
	})
	r.reader = python.Object{}
}

// decodeDetections 解析 readtext(detail=1) 的返回值.
// paragraph=True 时每项只有 [bbox, text], 置信度记为 0
func decodeDetections(t *python.Thread, res python.Object, paragraph bool) ([]RawDetection, error) {
	n, err := t.Len(res)
	if err != nil {
		return nil, fmt.Errorf("返回值不是序列: %w", err)
	}
	out := make([]RawDetection, 0, n)
	for i := 0; i < n; i++ {
		item, err := t.Item(res, i)
		if err != nil {
			return nil, err
		}
		det, err := decodeDetection(t, item, paragraph)
		t.Release(item)
		if err != nil {
			return nil, fmt.Errorf("第 %d 项: %w", i, err)
		}
		out = append(out, det)
	}
	return out, nil
}

func decodeDetection(t *python.Thread, item python.Object, paragraph bool) (RawDetection, error) {
	var det RawDetection

	m, err := t.Len(item)
	if err != nil {
		return det, err
	}
	if m != 3 && !(paragraph && m == 2) {
		return det, fmt.Errorf("期望 (bbox, text, confidence), 实际长度 %d", m)
	}

	bbox, err := t.Item(item, 0)
	if err != nil {
		return det, err
	}
	defer t.Release(bbox)
	if k, err := t.Len(bbox); err != nil {
		return det, err
	} else if k != 4 {
		return det, fmt.Errorf("期望 4 个顶点, 实际 %d 个", k)
	}
	for j := 0; j < 4; j++ {
		pt, err := t.Item(bbox, j)
		if err != nil {
			return det, err
		}
		det.BBox[j], err = decodePoint(t, pt)
		t.Release(pt)
		if err != nil {
			return det, fmt.Errorf("顶点 %d: %w", j, err)
		}
	}

	if det.Text, err = t.StringAt(item, 1); err != nil {
		return det, err
	}
	if m == 3 {
		if det.Confidence, err = t.FloatAt(item, 2); err != nil {
			return det, err
		}
	}
	return det, nil
}

func decodePoint(t *python.Thread, pt python.Object) (Point, error) {
	var p Point
	k, err := t.Len(pt)
	if err != nil {
		return p, err
	}
	if k != 2 {
		return p, fmt.Errorf("期望 (x, y), 实际长度 %d", k)
	}
	for i := 0; i < 2; i++ {
		if p[i], err = t.FloatAt(pt, i); err != nil {
			return p, err
		}
	}
	return p, nil
}
