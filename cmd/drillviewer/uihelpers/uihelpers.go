package uihelpers

// ComputeChartDimensions applies width/height clamp rules used for the parent chart.
// Input: desired raw width (e.g., canvas width). Returns clamped width & height.
func ComputeChartDimensions(rawW int) (int, int) {
	w := rawW
	if w < 640 {
		w = 640
	}
	h := int(float32(w) * 0.4)
	if h < 260 {
		h = 260
	}
	if h > 560 {
		h = 560
	}
	return w, h
}

// ComputeContainRect returns where an image of imgW x imgH is drawn inside a view of viewW x viewH with
// contain fitting (aspect preserved, centered), plus the image->view scale.
func ComputeContainRect(imgW, imgH, viewW, viewH float32) (drawX, drawY, drawW, drawH, scale float32) {
	if imgW <= 0 || imgH <= 0 || viewW <= 0 || viewH <= 0 {
		return 0, 0, viewW, viewH, 1
	}
	sx := viewW / imgW
	sy := viewH / imgH
	scale = sx
	if sy < sx {
		scale = sy
	}
	drawW = imgW * scale
	drawH = imgH * scale
	drawX = (viewW - drawW) / 2
	drawY = (viewH - drawH) / 2
	return
}

// ViewToImage maps a view position to image pixels. inside is false when the position falls in the
// letterbox around the drawn image.
func ViewToImage(x, y, imgW, imgH, viewW, viewH float32) (ix, iy float32, inside bool) {
	drawX, drawY, drawW, drawH, scale := ComputeContainRect(imgW, imgH, viewW, viewH)
	if scale <= 0 {
		return 0, 0, false
	}
	inside = x >= drawX && x <= drawX+drawW && y >= drawY && y <= drawY+drawH
	return (x - drawX) / scale, (y - drawY) / scale, inside
}

// ImageToView is the inverse of ViewToImage.
func ImageToView(ix, iy, imgW, imgH, viewW, viewH float32) (x, y float32) {
	drawX, drawY, _, _, scale := ComputeContainRect(imgW, imgH, viewW, viewH)
	return drawX + ix*scale, drawY + iy*scale
}
