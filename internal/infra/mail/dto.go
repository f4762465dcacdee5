package mail

type ContractReadyData struct {
	Name        string
	Title       string
	DownloadURL string
}

type ContractFailedData struct {
	Name   string
	Title  string
	Reason string
}
