package layout

import (
	"math"
	"sort"
)

// OverlapCandidate 是参与重叠检测的元素及其（可能已截断的）候选文本。
type OverlapCandidate struct {
	Element TextElement
	Text    string
}

// OverlapResolution 是单个元素的检测结果。BBox 为收窄后的有效包围盒。
type OverlapResolution struct {
	ElementID           string      `json:"elementId"`
	PageIndex           int         `json:"pageIndex"`
	Text                string      `json:"text"`
	BBox                BoundingBox `json:"bbox"`
	HasOverlap          bool        `json:"hasOverlap"`
	TruncatedForOverlap bool        `json:"truncatedForOverlap"`
	CollidesWith        string      `json:"collidesWith,omitempty"`
	// Skipped 表示包围盒无效，未参与检测。
	Skipped bool `json:"skipped,omitempty"`
}

type placedBox struct {
	id   string
	page int
	bbox BoundingBox
}

// ResolveOverlaps 按 (页, y, x) 的阅读顺序依次放置元素，阅读顺序靠前的元素永远不会为后面的让路。
// 每个元素只处理与已放置元素的第一次碰撞：收窄宽度到
// max(OverlapMinWidth, other.x - this.x - OverlapGap)，若确实变窄则按新宽度重新截断。
// 第一处碰撞之后不再尝试其他策略；收窄后仍与任何已放置元素相交时报告 HasOverlap。
// 返回值按处理顺序排列。
func (e *Engine) ResolveOverlaps(cands []OverlapCandidate) []OverlapResolution {
	sorted := make([]OverlapCandidate, len(cands))
	copy(sorted, cands)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Element, sorted[j].Element
		if a.PageIndex != b.PageIndex {
			return a.PageIndex < b.PageIndex
		}
		if a.BBox.Y != b.BBox.Y {
			return a.BBox.Y < b.BBox.Y
		}
		return a.BBox.X < b.BBox.X
	})

	out := make([]OverlapResolution, 0, len(sorted))
	placed := make([]placedBox, 0, len(sorted))
	for _, c := range sorted {
		el := c.Element
		res := OverlapResolution{
			ElementID: el.ID,
			PageIndex: el.PageIndex,
			Text:      c.Text,
			BBox:      el.BBox,
		}
		if !el.BBox.Valid() {
			res.Skipped = true
			out = append(out, res)
			continue
		}

		collided := false
		for _, other := range placed {
			if other.page != el.PageIndex || !el.BBox.Intersects(other.bbox) {
				continue
			}
			collided = true
			res.CollidesWith = other.id
			adjusted := math.Max(e.opts.OverlapMinWidth, other.bbox.X-el.BBox.X-e.opts.OverlapGap)
			if adjusted > 0 && adjusted < el.BBox.Width {
				narrowed := el
				narrowed.BBox = el.BBox.WithWidth(adjusted)
				res.Text = e.Truncate(c.Text, narrowed)
				res.BBox = narrowed.BBox
				res.TruncatedForOverlap = true
				Logger().Debug("重叠收窄", "id", el.ID, "other", other.id, "width", adjusted)
			}
			break
		}
		if collided {
			res.HasOverlap = intersectsAny(res.BBox, el.PageIndex, placed)
			if res.HasOverlap {
				Logger().Debug("重叠未消除", "id", el.ID, "other", res.CollidesWith)
			}
		}

		placed = append(placed, placedBox{id: el.ID, page: el.PageIndex, bbox: res.BBox})
		out = append(out, res)
	}
	return out
}

func intersectsAny(b BoundingBox, page int, placed []placedBox) bool {
	for _, p := range placed {
		if p.page == page && b.Intersects(p.bbox) {
			return true
		}
	}
	return false
}
