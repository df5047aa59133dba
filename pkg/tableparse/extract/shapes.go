package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

// ShapeTexts reads the text content of drawing shapes (text boxes,
// callouts, flowchart nodes) per sheet. Shape text often annotates a
// table in ways the cell grid cannot show, so it is carried into the
// result metadata. Sheets without drawings are absent from the map.
func ShapeTexts(data []byte) (map[string][]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	result := make(map[string][]string)
	for sheetName, drawingPath := range sheetDrawings(zr) {
		drawingXML, err := readZipPart(zr, drawingPath)
		if err != nil || drawingXML == nil {
			continue
		}
		if texts := drawingTexts(drawingXML); len(texts) > 0 {
			result[sheetName] = texts
		}
	}
	return result, nil
}

// sheetDrawings maps sheet names to their drawing part paths by chasing
// workbook.xml -> workbook.xml.rels -> per-sheet rels.
func sheetDrawings(zr *zip.Reader) map[string]string {
	result := make(map[string]string)

	workbookXML, err := readZipPart(zr, "xl/workbook.xml")
	if err != nil || workbookXML == nil {
		return result
	}
	relIDToName := sheetRelIDs(workbookXML)

	relsXML, err := readZipPart(zr, "xl/_rels/workbook.xml.rels")
	if err != nil || relsXML == nil {
		return result
	}

	for relID, target := range relationships(relsXML) {
		name, ok := relIDToName[relID]
		if !ok || !strings.Contains(strings.ToLower(target), "worksheet") {
			continue
		}
		sheetPath := resolvePartPath(target, "xl")

		relsPath := strings.Replace(sheetPath, "worksheets/", "worksheets/_rels/", 1) + ".rels"
		sheetRels, err := readZipPart(zr, relsPath)
		if err != nil || sheetRels == nil {
			continue
		}
		for _, relTarget := range relationshipsByType(sheetRels, "drawing") {
			result[name] = resolvePartPath(relTarget, "xl/drawings")
		}
	}
	return result
}

// drawingTexts walks a DrawingML part and collects the trimmed text of
// every shape element.
func drawingTexts(data []byte) []string {
	var texts []string
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "sp" && se.Name.Local != "cxnSp" {
			continue
		}
		if text := strings.TrimSpace(shapeText(decoder)); text != "" {
			texts = append(texts, text)
		}
	}
	return texts
}

// shapeText concatenates the <t> runs inside one shape element.
func shapeText(decoder *xml.Decoder) string {
	var b strings.Builder
	depth := 1
	inText := false
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			depth--
			if t.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String()
}

func sheetRelIDs(workbookXML []byte) map[string]string {
	result := make(map[string]string)
	decoder := xml.NewDecoder(bytes.NewReader(workbookXML))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "sheet" {
			continue
		}
		var name, relID string
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "name":
				name = attr.Value
			case "id":
				relID = attr.Value
			}
		}
		if name != "" && relID != "" {
			result[relID] = name
		}
	}
	return result
}

func relationships(relsXML []byte) map[string]string {
	result := make(map[string]string)
	decoder := xml.NewDecoder(bytes.NewReader(relsXML))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "Relationship" {
			continue
		}
		var relID, target string
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "Id":
				relID = attr.Value
			case "Target":
				target = attr.Value
			}
		}
		if relID != "" && target != "" {
			result[relID] = target
		}
	}
	return result
}

func relationshipsByType(relsXML []byte, typeSubstr string) []string {
	var targets []string
	decoder := xml.NewDecoder(bytes.NewReader(relsXML))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "Relationship" {
			continue
		}
		var relType, target string
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "Type":
				relType = attr.Value
			case "Target":
				target = attr.Value
			}
		}
		if strings.Contains(strings.ToLower(relType), typeSubstr) {
			targets = append(targets, target)
		}
	}
	return targets
}

func resolvePartPath(target, baseDir string) string {
	if strings.HasPrefix(target, "../") {
		for strings.HasPrefix(target, "../") {
			target = strings.TrimPrefix(target, "../")
		}
		return "xl/" + target
	}
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return baseDir + "/" + target
}

func readZipPart(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, nil
}
