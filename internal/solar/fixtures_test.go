package solar

const recentIndicesFixture = `:Product: Monthly Solar Indices  RecentIndices.txt
:Issued: 0800 UT 06 Jun 2016
#
#  Prepared by the U.S. Dept. of Commerce, NOAA, Space Weather Prediction Center (SWPC).
#                Measured and Predicted Solar Indices
#   YR MO    SSN    RI  RATIO   SSN    RI   10.7   10.7   Ap   Ap
#---------------------------------------------------------------------
2016 01   56.6  34.0   1.66  62.2  37.1  103.5  110.9    9   12
2016 02   57.0  33.5   1.70  60.1  35.8  103.5  108.0   11   11
2016 03   54.1  32.5   1.66  -1    -1     91.6   -1     10   -1

2016 04   37.9  -1
2016 05   37.7  22.1   1.71  -1    -1     93.1   -1     ***  -1
`

const fortyFiveDayFixture = `:Product: 45 Day AP Forecast  45DF.txt
:Issued: 2016 Jun 06 2132 UTC
# Prepared by the U.S. Air Force.
# Retransmitted by the Dept. of Commerce, NOAA, Space Weather Prediction Center
#
#         45-Day AP and F10.7cm Flux Forecast
#-------------------------------------------------------------
45-DAY AP FORECAST
07Jun16 005 08Jun16 008 09Jun16 012 10Jun16 005 11Jun16 005
12Jun16 005
45-DAY F10.7 CM FLUX FORECAST
07Jun16 080 08Jun16 082 09Jun16 085 10Jun16 085 11Jun16 090
13Jun16 095
FORECASTER:  DUTY OFFICER
99999
`

const twentyYearFixture = `Solar Cycle 24 Prediction
Marshall Space Flight Center
May 2016

Table 3. Monthly predicted values
                 Ap                F10.7
  Year      95%   50%    5%     95%   50%    5%
------------------------------------------------

-----
Decimal   Ap95  Ap75 Ap50  F95   F75  F50
2016.0    14.1  11.2  9.5   120.1 110.2 101.0
2016.5    13.8  10.9  9.0   118.0 108.4 99.5
2017.0    13.2  10.1  8.7   110.3 101.2 93.8
`
