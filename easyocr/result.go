package easyocr

// ToOCRData 将引擎原始结果转换为 OCRData, 按位置映射顶点, 不排序不校验
func ToOCRData(raw []RawDetection) OCRData {
	texts := make([]DetectedText, 0, len(raw))
	for _, r := range raw {
		texts = append(texts, DetectedText{
			BBox: BoundingBox{
				TL: r.BBox[0],
				TR: r.BBox[1],
				BR: r.BBox[2],
				BL: r.BBox[3],
			},
			Text:       r.Text,
			Confidence: r.Confidence,
		})
	}
	return OCRData{Texts: texts}
}

// TextList 只保留文本内容, 丢弃文本框和置信度
func (d OCRData) TextList() []string {
	list := make([]string, 0, len(d.Texts))
	for _, t := range d.Texts {
		list = append(list, t.Text)
	}
	return list
}
