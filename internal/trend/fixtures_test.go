package trend

// Payloads below follow the "response" object of the live API, trimmed.

const recommendManiaDoc = `{
  "request": {"isbn13": "9788936434120", "type": "mania"},
  "resultNum": 5,
  "docs": [
    {"book": {"no": 1, "bookname": "소년이 온다", "authors": "한강 지음", "publisher": "창비", "publication_year": "2014", "isbn13": "9788936434120", "vol": "", "class_no": "813.62", "class_nm": "문학 > 한국문학 > 소설", "bookImageURL": "https://image.aladin.co.kr/1.jpg"}},
    {"book": {"no": 2, "authors": "한강 지음", "publisher": "창비", "publication_year": "2007", "isbn13": "9788936433598"}},
    {"book": {"no": 3, "bookname": "작별하지 않는다", "authors": "한강 지음", "publisher": "문학동네", "publication_year": 2021, "isbn13": "9788954682152"}},
    {"book": {"no": 4, "bookname": "흰", "authors": "한강 지음", "publisher": "문학동네", "publication_year": "2018", "isbn13": "9788954651134"}},
    {"book": {"no": 5, "bookname": "희랍어 시간", "authors": "한강 지음", "publisher": "문학동네", "publication_year": "2011", "isbn13": "9788954616515"}}
  ]
}`

const recommendReaderDoc = `{
  "docs": [
    {"book": {"bookname": "흰", "authors": "한강 지음", "publisher": "문학동네", "publication_year": "2018", "isbn13": "9788954651134"}},
    {"book": {"bookname": "아몬드", "authors": "손원평 지음", "publisher": "창비", "publication_year": "2017", "isbn13": "9788936434267"}}
  ]
}`

const hotTrendDoc = `{
  "request": {"searchDt": "2024-05-15"},
  "results": [
    {"result": {"date": "2024-05-15", "docs": [
      {"doc": {"no": "1", "difference": "12", "baseWeekRank": "3", "pastWeekRank": "15", "bookname": "불편한 편의점", "authors": "김호연 지음", "publisher": "나무옆의자", "publication_year": "2021", "isbn13": "9791161571188", "addition_symbol": "03810", "vol": "", "class_no": "813.7", "class_nm": "문학 > 한국문학 > 소설", "bookImageURL": "https://image.aladin.co.kr/2.jpg", "bookDtlUrl": "https://data4library.kr/bookV?seq=1"}},
      {"doc": {"no": "2", "difference": "8", "baseWeekRank": "5", "pastWeekRank": "13", "bookname": "세이노의 가르침", "authors": "세이노 지음", "publisher": "데이원", "publication_year": "2023", "isbn13": "9791168473690"}}
    ]}},
    {"result": {"date": "2024-05-14", "docs": [
      {"doc": {"no": "1", "difference": "4", "baseWeekRank": "2", "pastWeekRank": "6", "bookname": "불편한 편의점", "authors": "김호연 지음", "publisher": "나무옆의자", "publication_year": "2021", "isbn13": "9791161571188"}},
      "not an object"
    ]}},
    {"date": "2024-05-13"}
  ]
}`

const loanItemsDoc = `{
  "request": {"startDt": "2024-05-06", "endDt": "2024-05-12", "pageNo": 1, "pageSize": 300},
  "resultNum": 6,
  "numFound": 6,
  "docs": [
    {"doc": {"no": 1, "ranking": "1", "bookname": "세이노의 가르침", "authors": "세이노 지음", "publisher": "데이원", "publication_year": "2023", "isbn13": "9791168473690", "addition_symbol": "03320", "class_no": "325.04", "class_nm": "사회과학 > 경제학 > 경영", "loan_count": 1520, "bookImageURL": "https://image.aladin.co.kr/3.jpg", "bookDtlUrl": "https://data4library.kr/bookV?seq=3"}},
    {"doc": {"no": 2, "ranking": "2", "bookname": "역행자", "authors": "자청 지음", "publisher": "웅진지식하우스", "publication_year": "2022", "isbn13": "9788901260716", "loan_count": "1311"}},
    {"doc": {"no": 3, "ranking": "3", "bookname": "세이노의 가르침", "authors": "세이노 지음", "publisher": "데이원", "publication_year": "2023", "isbn13": "9791168473690", "loan_count": "1200"}},
    {"doc": {"no": 4, "ranking": "4", "bookname": "부의 추월차선", "authors": "엠제이 드마코 지음", "publisher": "토트", "publication_year": "2013", "isbn13": "9788994120966", "loan_count": "990"}},
    {"doc": {"no": 5, "ranking": "5", "bookname": "돈의 속성", "authors": "김승호 지음", "publisher": "스노우폭스북스", "publication_year": "2020", "isbn13": "9791188331796", "loan_count": "870"}},
    {"doc": {"no": 6, "ranking": "6", "bookname": "퓨처 셀프", "authors": "벤저민 하디 지음", "publisher": "상상스퀘어", "publication_year": "미상", "isbn13": "9791192389387", "loan_count": "850"}}
  ]
}`
