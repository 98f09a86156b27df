package parser

import "fmt"

// CategoryNames maps container ids to display names.
type CategoryNames map[int]string

// DefaultCategoryNames is the category table of the CoolPC quote page.
var DefaultCategoryNames = CategoryNames{
	1:  "品牌小主機、AIO|VR虛擬",
	2:  "筆電|平板|穿戴配件",
	3:  "酷！PC 套裝產線",
	4:  "處理器 CPU",
	5:  "主機板 MB",
	6:  "記憶體 RAM",
	7:  "固態硬碟 M.2|SSD",
	8:  "2.5/3.5 傳統內接硬碟HDD",
	9:  "隨身碟|隨身硬碟|記憶卡",
	10: "散熱器|散熱墊|散熱膏",
	11: "封閉式|開放式水冷",
	12: "顯示卡VGA",
	13: "螢幕|投影機|壁掛",
	14: "CASE 機殼(+電源)",
	15: "電源供應器",
	16: "機殼風扇|機殼配件",
	17: "鍵盤+鼠|搖桿|桌+椅",
	18: "滑鼠|鼠墊|數位板",
	19: "IP分享器|網卡|網通設備",
	20: "網路NAS|網路IPCAM",
	21: "音效卡|電視卡(盒)|影音",
	22: "喇叭|耳機|麥克風",
	23: "燒錄器 CD/DVD/BD",
	24: "USB週邊|硬碟座|讀卡機",
	25: "行車紀錄器|USB視訊鏡頭",
	26: "UPS不斷電|印表機|掃描",
	27: "介面擴充卡|專業Raid卡",
	28: "網路、傳輸線、轉頭|KVM",
	29: "OS+應用軟體|禮物卡",
	30: "福利品出清",
}

// GraphicsCardCategory is the container id of the VGA category.
const GraphicsCardCategory = 12

// Name returns the display name for id, or a placeholder for unknown ids.
func (n CategoryNames) Name(id int) string {
	if name, ok := n[id]; ok {
		return name
	}
	return fmt.Sprintf("類別 %d", id)
}
